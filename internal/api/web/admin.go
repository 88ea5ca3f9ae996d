package web

import (
	"errors"
	"net/http"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
	"gitee.com/flycash/whatsapp-notify/internal/errs"
	"gitee.com/flycash/whatsapp-notify/internal/service/provider/whatsapp/client"
	"gitee.com/flycash/whatsapp-notify/internal/service/settings"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ Handler = (*AdminHandler)(nil)

// AdminHandler 后台配置页接口。
// 渠道、模板列表直接代理服务商API，配置本身走本地存储
type AdminHandler struct {
	settingsSvc settings.Service
	client      client.Client
	logger      *elog.Component
}

func NewAdminHandler(settingsSvc settings.Service, c client.Client) *AdminHandler {
	return &AdminHandler{
		settingsSvc: settingsSvc,
		client:      c,
		logger:      elog.DefaultLogger,
	}
}

func (h *AdminHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/api/v1/admin")
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.SaveSettings)
	g.GET("/channels", h.ListChannels)
	g.GET("/templates", h.ListTemplates)
	g.GET("/template-payload/:number/:name", h.TemplatePayload)
}

type settingsVO struct {
	APIKey         string                       `json:"apiKey"`
	BaseURL        string                       `json:"baseUrl"`
	ChannelID      string                       `json:"channelId"`
	PhonePrefix    string                       `json:"phonePrefix"`
	OTPEnabled     bool                         `json:"otpEnabled"`
	AuthTemplate   string                       `json:"authTemplate"`
	EventTemplates map[domain.EventKind]string `json:"eventTemplates"`
}

func (h *AdminHandler) GetSettings(ctx *gin.Context) {
	cfg, err := h.settingsSvc.Get(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, errs.ErrSettingsNotFound) {
			// 尚未配置过，返回空设置而不是404，前端直接渲染空表单
			ctx.JSON(http.StatusOK, ok(settingsVO{}))
			return
		}
		h.internalError(ctx, "读取插件设置失败", err)
		return
	}
	ctx.JSON(http.StatusOK, ok(settingsVO{
		APIKey:         cfg.Credentials.APIKey,
		BaseURL:        cfg.Credentials.BaseURL,
		ChannelID:      cfg.Credentials.ChannelID,
		PhonePrefix:    cfg.Credentials.PhonePrefix,
		OTPEnabled:     cfg.OTPEnabled,
		AuthTemplate:   cfg.AuthTemplate,
		EventTemplates: cfg.EventTemplates,
	}))
}

func (h *AdminHandler) SaveSettings(ctx *gin.Context) {
	var req settingsVO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "参数不合法"})
		return
	}
	err := h.settingsSvc.Save(ctx.Request.Context(), domain.PluginSettings{
		ID: domain.DefaultSettingsID,
		Credentials: domain.Credentials{
			APIKey:      req.APIKey,
			BaseURL:     req.BaseURL,
			ChannelID:   req.ChannelID,
			PhonePrefix: req.PhonePrefix,
		},
		OTPEnabled:     req.OTPEnabled,
		AuthTemplate:   req.AuthTemplate,
		EventTemplates: req.EventTemplates,
	})
	if err != nil {
		if errors.Is(err, errs.ErrMissingCredentials) {
			ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: err.Error()})
			return
		}
		h.internalError(ctx, "保存插件设置失败", err)
		return
	}
	ctx.JSON(http.StatusOK, ok(nil))
}

func (h *AdminHandler) ListChannels(ctx *gin.Context) {
	creds, err := h.settingsSvc.Credentials(ctx.Request.Context())
	if err != nil {
		h.credentialsError(ctx, err)
		return
	}
	channels, err := h.client.ListChannels(ctx.Request.Context(), creds)
	if err != nil {
		h.internalError(ctx, "拉取渠道列表失败", err)
		return
	}
	ctx.JSON(http.StatusOK, ok(channels))
}

func (h *AdminHandler) ListTemplates(ctx *gin.Context) {
	creds, err := h.settingsSvc.Credentials(ctx.Request.Context())
	if err != nil {
		h.credentialsError(ctx, err)
		return
	}
	templates, err := h.client.ListTemplates(ctx.Request.Context(), creds)
	if err != nil {
		h.internalError(ctx, "拉取模板列表失败", err)
		return
	}
	ctx.JSON(http.StatusOK, ok(templates))
}

func (h *AdminHandler) TemplatePayload(ctx *gin.Context) {
	number := ctx.Param("number")
	name := ctx.Param("name")
	if number == "" || name == "" {
		ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "参数不合法"})
		return
	}
	creds, err := h.settingsSvc.Credentials(ctx.Request.Context())
	if err != nil {
		h.credentialsError(ctx, err)
		return
	}
	payload, err := h.client.TemplatePayload(ctx.Request.Context(), creds, number, name)
	if err != nil {
		h.internalError(ctx, "拉取模板结构失败", err)
		return
	}
	ctx.JSON(http.StatusOK, ok(payload))
}

func (h *AdminHandler) credentialsError(ctx *gin.Context, err error) {
	if errors.Is(err, errs.ErrMissingCredentials) || errors.Is(err, errs.ErrSettingsNotFound) {
		ctx.JSON(http.StatusBadRequest, Result{Code: codeInvalidParam, Msg: "凭证未配置完整"})
		return
	}
	h.internalError(ctx, "读取凭证失败", err)
}

func (h *AdminHandler) internalError(ctx *gin.Context, msg string, err error) {
	h.logger.Error(msg, elog.FieldErr(err))
	ctx.JSON(http.StatusInternalServerError, Result{Code: codeInternalError, Msg: "系统错误"})
}
