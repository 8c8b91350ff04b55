package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moodlog/internal/logging"
	"github.com/moodlog/internal/service"
	"go.uber.org/zap"
)

// GetInsights 返回最近 30 天的情绪洞察
func (a *API) GetInsights(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "请先登录")
		return
	}

	insights, err := a.insights.ForUser(userID, time.Now())
	if err != nil {
		logging.L().Error("compute insights failed", zap.Uint("user_id", userID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "计算情绪洞察失败")
		return
	}

	c.JSON(http.StatusOK, serializeInsights(insights))
}

func serializeInsights(insights service.Insights) gin.H {
	return gin.H{
		"week_data":        serializeDayAggregates(insights.WeekData),
		"month_data":       serializeDayAggregates(insights.MonthData),
		"tag_correlations": serializeTagCorrelations(insights.TagCorrelations),
		"best_day":         weekdayName(insights.BestDay),
		"worst_day":        weekdayName(insights.WorstDay),
		"average_score":    insights.AverageScore,
		"total_checkins":   insights.TotalCheckins,
	}
}

func serializeDayAggregates(aggregates []service.DayAggregate) []gin.H {
	items := make([]gin.H, 0, len(aggregates))
	for _, agg := range aggregates {
		tags := agg.Tags
		if tags == nil {
			tags = []string{}
		}
		items = append(items, gin.H{
			"date":  agg.Date.Format(dateFormat),
			"score": agg.Score,
			"emoji": agg.Emoji,
			"tags":  tags,
		})
	}
	return items
}

func serializeTagCorrelations(correlations []service.TagCorrelation) []gin.H {
	items := make([]gin.H, 0, len(correlations))
	for _, corr := range correlations {
		items = append(items, gin.H{
			"tag":       corr.Tag,
			"avg_score": corr.AvgScore,
			"count":     corr.Count,
		})
	}
	return items
}

// weekdayName 把星期序号转成英文名，空值序列化为 null
func weekdayName(day *time.Weekday) any {
	if day == nil {
		return nil
	}
	return day.String()
}
