package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/service"
)

// GetProfile 返回当前用户资料
func (a *API) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	user, err := a.profiles.Get(userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取资料失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": serializeUser(*user)})
}

// UpdateProfile 更新当前用户的用户名与头像
func (a *API) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var payload struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	user, err := a.profiles.Update(userID, service.ProfileInput{
		Username:  payload.Username,
		AvatarURL: payload.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameInvalid):
			respondError(c, http.StatusBadRequest, "用户名需为 3-24 位字母、数字或下划线")
		case errors.Is(err, service.ErrUsernameTaken):
			respondError(c, http.StatusConflict, "用户名已被占用")
		default:
			respondError(c, http.StatusInternalServerError, "更新资料失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": serializeUser(*user)})
}

func serializeUser(user db.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"avatar_url": user.AvatarURL,
	}
}
