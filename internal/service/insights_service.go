package service

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/mood"
	"gorm.io/gorm"
)

// 洞察聚合使用的回看窗口长度（天）
const (
	insightsWindowDays = 30
	weekWindowDays     = 7
)

// DayAggregate 表示回看窗口内某个日历日的聚合结果，同一天多次打卡只保留最后一条
type DayAggregate struct {
	Date  time.Time
	Score float64
	Emoji string
	Tags  []string
}

// TagCorrelation 表示某个标签与情绪分值的关联统计
type TagCorrelation struct {
	Tag      string
	AvgScore float64
	Count    int
}

// Insights 汇总一个用户在回看窗口内的情绪洞察
type Insights struct {
	WeekData        []DayAggregate
	MonthData       []DayAggregate
	TagCorrelations []TagCorrelation
	BestDay         *time.Weekday
	WorstDay        *time.Weekday
	AverageScore    float64
	TotalCheckins   int
}

type scoreAccumulator struct {
	sum   float64
	count int
}

// ComputeInsights 把一段打卡记录变成情绪洞察。纯函数，无副作用。
// 输入约定按创建时间升序排列，同一天的记录以后出现者为准；
// 缺失时间戳或分值越界的记录会在所有统计之前被确定性跳过。
// 空输入返回空结果而非错误。
func ComputeInsights(records []db.Checkin, referenceDate time.Time) Insights {
	insights := Insights{
		WeekData:        []DayAggregate{},
		MonthData:       []DayAggregate{},
		TagCorrelations: []TagCorrelation{},
	}

	valid := records[:0:0]
	for _, record := range records {
		if record.CreatedAt.IsZero() || !mood.ValidScore(record.SentimentScore) {
			continue
		}
		valid = append(valid, record)
	}

	if len(valid) == 0 {
		return insights
	}

	// 按日历日去重，迭代序靠后的记录覆盖靠前的
	dayMap := make(map[time.Time]DayAggregate, len(valid))
	for _, record := range valid {
		date := dateOnly(record.CreatedAt)
		dayMap[date] = DayAggregate{
			Date:  date,
			Score: record.SentimentScore,
			Emoji: record.Emoji,
			Tags:  record.Tags,
		}
	}

	monthData := make([]DayAggregate, 0, len(dayMap))
	for _, agg := range dayMap {
		monthData = append(monthData, agg)
	}
	slices.SortFunc(monthData, func(a, b DayAggregate) int {
		return a.Date.Compare(b.Date)
	})

	weekStart := dateOnly(referenceDate).AddDate(0, 0, -weekWindowDays)
	weekData := make([]DayAggregate, 0, len(monthData))
	for _, agg := range monthData {
		if !agg.Date.Before(weekStart) {
			weekData = append(weekData, agg)
		}
	}

	insights.MonthData = monthData
	insights.WeekData = weekData

	// 标签关联统计：不按天去重，同一天的每条打卡都计入
	tagScores := make(map[string]*scoreAccumulator)
	for _, record := range valid {
		for _, tag := range record.Tags {
			acc, ok := tagScores[tag]
			if !ok {
				acc = &scoreAccumulator{}
				tagScores[tag] = acc
			}
			acc.sum += record.SentimentScore
			acc.count++
		}
	}

	correlations := make([]TagCorrelation, 0, len(tagScores))
	for tag, acc := range tagScores {
		correlations = append(correlations, TagCorrelation{
			Tag:      tag,
			AvgScore: acc.sum / float64(acc.count),
			Count:    acc.count,
		})
	}
	slices.SortFunc(correlations, func(a, b TagCorrelation) int {
		if diff := cmp.Compare(b.AvgScore, a.AvgScore); diff != 0 {
			return diff
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	insights.TagCorrelations = correlations

	// 按星期聚合（0=周日..6=周六），从周日起单趟扫描，
	// 平均分完全相同时保留先遇到的那一天
	var weekdaySums [7]float64
	var weekdayCounts [7]int
	var totalScore float64
	for _, record := range valid {
		weekday := record.CreatedAt.UTC().Weekday()
		weekdaySums[weekday] += record.SentimentScore
		weekdayCounts[weekday]++
		totalScore += record.SentimentScore
	}

	bestScore := -1.0
	worstScore := 2.0
	for day := time.Sunday; day <= time.Saturday; day++ {
		if weekdayCounts[day] == 0 {
			continue
		}
		avg := weekdaySums[day] / float64(weekdayCounts[day])
		if avg > bestScore {
			bestScore = avg
			best := day
			insights.BestDay = &best
		}
		if avg < worstScore {
			worstScore = avg
			worst := day
			insights.WorstDay = &worst
		}
	}

	insights.AverageScore = totalScore / float64(len(valid))
	insights.TotalCheckins = len(valid)

	return insights
}

// InsightsService 负责拉取回看窗口内的打卡并执行纯聚合
type InsightsService struct {
	checkins *CheckinService
}

// NewInsightsService 构造 InsightsService
func NewInsightsService(gdb *gorm.DB) *InsightsService {
	return &InsightsService{checkins: NewCheckinService(gdb)}
}

// ForUser 拉取用户最近 30 天的打卡并计算洞察
func (s *InsightsService) ForUser(userID uint, now time.Time) (Insights, error) {
	since := dateOnly(now).AddDate(0, 0, -insightsWindowDays)

	records, err := s.checkins.ListSince(userID, since)
	if err != nil {
		return Insights{}, fmt.Errorf("load insights window: %w", err)
	}

	return ComputeInsights(records, now), nil
}
