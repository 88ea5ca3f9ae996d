package web

import (
	"errors"
	"net/http"

	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/service/otp"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ Handler = (*OTPHandler)(nil)

// OTPHandler 店面侧的验证码接口。
// 调用方没有稳定登录态时不传 subject，由服务端生成会话ID并返回
type OTPHandler struct {
	svc         otp.Service
	settingsSvc settings.Service
	logger      *elog.Component
}

func NewOTPHandler(svc otp.Service, settingsSvc settings.Service) *OTPHandler {
	return &OTPHandler{
		svc:         svc,
		settingsSvc: settingsSvc,
		logger:      elog.DefaultLogger,
	}
}

func (h *OTPHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/api/v1/otp")
	g.POST("/send", h.Send)
	g.POST("/verify", h.Verify)
}

type sendOTPReq struct {
	Phone   string `json:"phone" binding:"required"`
	Subject string `json:"subject"`
}

type sendOTPResp struct {
	Subject string `json:"subject"`
}

func (h *OTPHandler) Send(ctx *gin.Context) {
	var req sendOTPReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "参数不合法"})
		return
	}
	enabled, err := h.settingsSvc.OTPEnabled(ctx.Request.Context())
	if err != nil {
		h.internalError(ctx, "读取OTP开关失败", err)
		return
	}
	if !enabled {
		ctx.JSON(http.StatusForbidden, Result{Code: codeOTPDisabled, Msg: errs.ErrOTPDisabled.Error()})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = otp.AnonymousSubject()
	}
	if err := h.svc.Request(ctx.Request.Context(), subject, req.Phone); err != nil {
		if errors.Is(err, errs.ErrInvalidParameter) || errors.Is(err, errs.ErrInvalidPhone) {
			ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "参数不合法"})
			return
		}
		h.internalError(ctx, "发送验证码失败", err)
		return
	}
	ctx.JSON(http.StatusOK, ok(sendOTPResp{Subject: subject}))
}

type verifyOTPReq struct {
	Subject string `json:"subject" binding:"required"`
	Code    string `json:"code" binding:"required"`
}

func (h *OTPHandler) Verify(ctx *gin.Context) {
	var req verifyOTPReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "参数不合法"})
		return
	}
	enabled, err := h.settingsSvc.OTPEnabled(ctx.Request.Context())
	if err != nil {
		h.internalError(ctx, "读取OTP开关失败", err)
		return
	}
	if !enabled {
		ctx.JSON(http.StatusForbidden, Result{Code: codeOTPDisabled, Msg: errs.ErrOTPDisabled.Error()})
		return
	}

	err = h.svc.Verify(ctx.Request.Context(), req.Subject, req.Code)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, ok(nil))
	case errors.Is(err, errs.ErrOTPNotFound),
		errors.Is(err, errs.ErrOTPExpired),
		errors.Is(err, errs.ErrOTPInvalid):
		// 对外不区分不存在/过期/不匹配，避免给撞码方反馈
		ctx.JSON(http.StatusUnauthorized, Result{Code: codeOTPRejected, Msg: "验证码校验未通过"})
	default:
		h.internalError(ctx, "校验验证码失败", err)
	}
}

func (h *OTPHandler) internalError(ctx *gin.Context, msg string, err error) {
	h.logger.Error(msg, elog.FieldErr(err))
	ctx.JSON(http.StatusInternalServerError, Result{Code: codeInternalError, Msg: "系统错误"})
}
