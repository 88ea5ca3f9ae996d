// Package web 对外的HTTP接口：店面侧的OTP校验、后台侧的配置管理
package web

import "github.com/gin-gonic/gin"

// Result 统一响应体
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

const (
	codeOK            = 0
	codeInvalidParam  = 400001
	codeOTPDisabled   = 403001
	codeOTPRejected   = 401001
	codeInternalError = 500001
)

func ok(data any) Result {
	return Result{Code: codeOK, Msg: "OK", Data: data}
}

// Handler 一组可挂载的路由
type Handler interface {
	RegisterRoutes(server *gin.Engine)
}
