package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/moodlog/internal/db"
	"github.com/moodlog/internal/mood"
	"gorm.io/gorm"
)

var (
	// ErrCheckinExistsToday 在当天已打卡后再次提交时返回
	ErrCheckinExistsToday = errors.New("checkin already exists for today")
	// ErrCheckinInvalid 在表情、分值或标签不合法时返回
	ErrCheckinInvalid = errors.New("invalid checkin payload")
)

// CheckinService 负责心情打卡的写入与查询
// 客户端的自由文本备注永远不会经过这里：输入结构里根本没有这个字段（隐私边界）
type CheckinService struct {
	db *gorm.DB
}

// CheckinInput 定义提交打卡时可配置的字段
type CheckinInput struct {
	Emoji          string
	SentimentScore float64
	Tags           []string
}

// NewCheckinService 构造 CheckinService
func NewCheckinService(gdb *gorm.DB) *CheckinService {
	return &CheckinService{db: gdb}
}

// Submit 提交一次打卡。同一天的重复提交会返回 ErrCheckinExistsToday，
// 这是前端「今日是否已打卡」检查之外的服务端闸门。
func (s *CheckinService) Submit(userID uint, input CheckinInput, now time.Time) (*db.Checkin, error) {
	if !mood.ValidEmoji(input.Emoji) {
		return nil, fmt.Errorf("%w: unknown emoji %q", ErrCheckinInvalid, input.Emoji)
	}
	if !mood.ValidScore(input.SentimentScore) {
		return nil, fmt.Errorf("%w: score %f out of range", ErrCheckinInvalid, input.SentimentScore)
	}

	tags, ok := mood.NormalizeTags(input.Tags)
	if !ok {
		return nil, fmt.Errorf("%w: tag outside vocabulary", ErrCheckinInvalid)
	}

	existing, err := s.TodayCheckin(userID, now)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCheckinExistsToday
	}

	record := db.Checkin{
		UserID:         userID,
		Emoji:          input.Emoji,
		SentimentScore: input.SentimentScore,
		Tags:           tags,
	}
	record.CreatedAt = now

	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create checkin: %w", err)
	}

	return &record, nil
}

// TodayCheckin 返回用户当天最近的一条打卡，不存在时返回 nil
func (s *CheckinService) TodayCheckin(userID uint, now time.Time) (*db.Checkin, error) {
	start, end := dayRange(now)

	var record db.Checkin
	err := s.db.Where("user_id = ?", userID).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query today checkin: %w", err)
	}

	return &record, nil
}

// ListSince 返回 since 之后的全部打卡，按创建时间升序。
// 洞察聚合依赖这个升序约定来做「同日后写覆盖」的去重。
func (s *CheckinService) ListSince(userID uint, since time.Time) ([]db.Checkin, error) {
	var records []db.Checkin
	if err := s.db.Where("user_id = ?", userID).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}

	return records, nil
}
