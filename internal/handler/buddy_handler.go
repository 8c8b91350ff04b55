package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/service"
)

// ListBuddies 返回好友列表与等待处理的请求
func (a *API) ListBuddies(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	accepted, pending, err := a.buddies.ListFor(userID, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取好友列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buddies":          serializeBuddyViews(accepted),
		"pending_requests": serializeBuddyViews(pending),
	})
}

// SendBuddyRequest 按用户名发起好友请求
func (a *API) SendBuddyRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var payload struct {
		Username string `json:"username"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	if _, err := a.buddies.SendRequest(userID, payload.Username); err != nil {
		handleBuddyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// AcceptBuddyRequest 接受一条指向自己的好友请求
func (a *API) AcceptBuddyRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	requesterID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if _, err := a.buddies.Accept(userID, requesterID); err != nil {
		handleBuddyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": true})
}

// RejectBuddyRequest 拒绝一条指向自己的好友请求
func (a *API) RejectBuddyRequest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	requesterID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if err := a.buddies.Reject(userID, requesterID); err != nil {
		handleBuddyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rejected": true})
}

// RemoveBuddy 解除好友关系
func (a *API) RemoveBuddy(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	otherID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	if err := a.buddies.Remove(userID, otherID); err != nil {
		handleBuddyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func serializeBuddyViews(views []service.BuddyView) []gin.H {
	items := make([]gin.H, 0, len(views))
	for _, view := range views {
		item := gin.H{
			"user":   serializeUser(view.User),
			"status": view.Relation.Status,
		}
		if view.TodayMood != nil {
			item["today_mood"] = gin.H{
				"emoji": view.TodayMood.Emoji,
				"score": view.TodayMood.Score,
			}
		}
		items = append(items, item)
	}
	return items
}

func handleBuddyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "用户不存在")
	case errors.Is(err, service.ErrBuddySelf):
		respondError(c, http.StatusBadRequest, "不能添加自己为好友")
	case errors.Is(err, service.ErrBuddyExists):
		respondError(c, http.StatusConflict, "好友关系已存在")
	case errors.Is(err, service.ErrBuddyLimitReached):
		respondError(c, http.StatusConflict, "好友数量已达上限")
	case errors.Is(err, service.ErrBuddyRequestNotFound):
		respondError(c, http.StatusNotFound, "好友请求不存在")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
