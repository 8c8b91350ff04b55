package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/logging"
	"github.com/moodlog/internal/service"
	"go.uber.org/zap"
)

const sessionUserKey = "user_id"

// RequestLoginCode 处理免密登录第一步：签发邮箱验证码。
// 邮件投递不在本服务范围内，验证码仅写入日志供本地联调。
func (a *API) RequestLoginCode(c *gin.Context) {
	var payload struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	user, code, err := a.auth.RequestCode(payload.Email, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrEmailInvalid) {
			respondError(c, http.StatusBadRequest, "邮箱格式不正确")
			return
		}
		logging.L().Error("issue login code failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "发送验证码失败")
		return
	}

	// TODO: 接入真实邮件服务后删除这条日志
	logging.L().Info("login code issued",
		zap.String("email", user.Email),
		zap.String("code", code))

	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// VerifyLoginCode 处理免密登录第二步：验证码换取会话
func (a *API) VerifyLoginCode(c *gin.Context) {
	var payload struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	user, err := a.auth.Redeem(payload.Email, payload.Code, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoginCodeExpired):
			respondError(c, http.StatusUnauthorized, "验证码已过期")
		case errors.Is(err, service.ErrLoginCodeInvalid), errors.Is(err, service.ErrEmailInvalid):
			respondError(c, http.StatusUnauthorized, "验证码不正确")
		default:
			logging.L().Error("redeem login code failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "登录失败")
		}
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": serializeUser(*user)})
}

// Logout 清除当前会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

// AuthRequired 是一个简单的认证中间件，未登录请求一律返回 401
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserKey) == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUserID 从会话中解析当前用户，所有业务 handler 都显式携带它调用服务层
func currentUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	raw := session.Get(sessionUserKey)
	if raw == nil {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}
