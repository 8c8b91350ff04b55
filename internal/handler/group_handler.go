package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/service"
)

// ListGroups 返回当前用户加入的小组及今日氛围
func (a *API) ListGroups(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	overviews, err := a.groups.ListFor(userID, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取小组列表失败")
		return
	}

	items := make([]gin.H, 0, len(overviews))
	for _, overview := range overviews {
		item := serializeGroup(overview.Group)
		item["member_count"] = overview.MemberCount
		item["today_vibe"] = overview.TodayVibe
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"groups": items})
}

// CreateGroup 新建小组
func (a *API) CreateGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	group, err := a.groups.Create(userID, payload.Name)
	if err != nil {
		if errors.Is(err, service.ErrGroupNameInvalid) {
			respondError(c, http.StatusBadRequest, "小组名称不合法")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建小组失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": serializeGroup(*group)})
}

// JoinGroup 通过邀请码加入小组
func (a *API) JoinGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var payload struct {
		InviteCode string `json:"invite_code"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	group, err := a.groups.Join(userID, payload.InviteCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteCodeInvalid):
			respondError(c, http.StatusNotFound, "邀请码无效")
		case errors.Is(err, service.ErrAlreadyMember):
			respondError(c, http.StatusConflict, "已经加入该小组")
		default:
			respondError(c, http.StatusInternalServerError, "加入小组失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": serializeGroup(*group)})
}

// LeaveGroup 退出小组
func (a *API) LeaveGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	groupID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的小组ID")
		return
	}

	if err := a.groups.Leave(userID, groupID); err != nil {
		if errors.Is(err, service.ErrNotMember) {
			respondError(c, http.StatusNotFound, "尚未加入该小组")
			return
		}
		respondError(c, http.StatusInternalServerError, "退出小组失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"left": true})
}

func serializeGroup(group db.Group) gin.H {
	return gin.H{
		"id":          group.ID,
		"name":        group.Name,
		"invite_code": group.InviteCode,
		"created_by":  group.CreatedBy,
	}
}
