package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/logging"
	"github.com/moodlog/internal/mood"
	"github.com/moodlog/internal/service"
	"go.uber.org/zap"
)

// GetMoodOptions 返回打卡可用的表情与标签词表
func (a *API) GetMoodOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"emojis": mood.Emojis,
		"tags":   mood.Tags,
	})
}

// SubmitCheckin 提交当天的心情打卡，成功后同步推进连续打卡状态。
// 客户端备注字段在这里被有意忽略：备注只存在设备本地，不进入服务端。
func (a *API) SubmitCheckin(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	var payload struct {
		Emoji          string   `json:"emoji"`
		SentimentScore float64  `json:"sentiment_score"`
		Tags           []string `json:"tags"`
	}
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	now := time.Now()
	record, err := a.checkins.Submit(userID, service.CheckinInput{
		Emoji:          payload.Emoji,
		SentimentScore: payload.SentimentScore,
		Tags:           payload.Tags,
	}, now)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckinExistsToday):
			respondError(c, http.StatusConflict, "今天已经打过卡了")
		case errors.Is(err, service.ErrCheckinInvalid):
			respondError(c, http.StatusBadRequest, "打卡内容不合法")
		default:
			logging.L().Error("submit checkin failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "保存打卡失败")
		}
		return
	}

	// 打卡行已落库，再推进连续打卡计数
	streak, err := a.streaks.RecordCheckin(userID, now)
	if err != nil {
		logging.L().Error("advance streak failed", zap.Uint("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "更新连续打卡失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"checkin": serializeCheckin(*record),
		"streak":  serializeStreak(streak),
	})
}

// GetTodayCheckin 返回当天的打卡，供客户端做「今日是否已打卡」判断
func (a *API) GetTodayCheckin(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	record, err := a.checkins.TodayCheckin(userID, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "查询今日打卡失败")
		return
	}

	if record == nil {
		c.JSON(http.StatusOK, gin.H{"checkin": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkin": serializeCheckin(*record)})
}

// GetStreak 返回连续打卡状态，读取时惰性修复断档
func (a *API) GetStreak(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	streak, err := a.streaks.ReconcileOnRead(userID, time.Now())
	if err != nil {
		logging.L().Error("reconcile streak failed", zap.Uint("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "查询连续打卡失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"streak": serializeStreak(streak)})
}

func serializeCheckin(record db.Checkin) gin.H {
	tags := record.Tags
	if tags == nil {
		tags = []string{}
	}
	return gin.H{
		"id":              record.ID,
		"emoji":           record.Emoji,
		"sentiment_score": record.SentimentScore,
		"tags":            tags,
		"created_at":      record.CreatedAt.Format(time.RFC3339),
	}
}

func serializeStreak(streak *db.Streak) gin.H {
	payload := gin.H{
		"current_streak": streak.CurrentStreak,
		"longest_streak": streak.LongestStreak,
	}
	if !streak.LastCheckinDate.IsZero() {
		payload["last_checkin_date"] = streak.LastCheckinDate.Format(dateFormat)
	}
	return payload
}
