package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/moodlog/internal/db"
	"gorm.io/gorm"
)

// MaxBuddies 限制每个用户最多拥有的已接受好友数
const MaxBuddies = 3

var (
	// ErrBuddySelf 禁止向自己发送好友请求
	ErrBuddySelf = errors.New("cannot add yourself as a buddy")
	// ErrBuddyExists 在两人之间已存在关系（任意方向）时返回
	ErrBuddyExists = errors.New("buddy relationship already exists")
	// ErrBuddyLimitReached 在已接受好友数达到上限时返回
	ErrBuddyLimitReached = errors.New("buddy limit reached")
	// ErrBuddyRequestNotFound 在指定好友关系不存在时返回
	ErrBuddyRequestNotFound = errors.New("buddy request not found")
)

// TodayMood 表示好友今天的心情快照，只对已接受的好友可见
type TodayMood struct {
	Emoji string
	Score float64
}

// BuddyView 把好友关系、对方资料与今日心情打包给接口层
type BuddyView struct {
	Relation  db.Buddy
	User      db.User
	TodayMood *TodayMood
}

// BuddyService 负责好友请求的全生命周期与心情可见性
type BuddyService struct {
	db       *gorm.DB
	profiles *ProfileService
	checkins *CheckinService
}

// NewBuddyService 构造 BuddyService
func NewBuddyService(gdb *gorm.DB) *BuddyService {
	return &BuddyService{
		db:       gdb,
		profiles: NewProfileService(gdb),
		checkins: NewCheckinService(gdb),
	}
}

// SendRequest 按用户名向对方发起好友请求
func (s *BuddyService) SendRequest(requesterID uint, username string) (*db.Buddy, error) {
	target, err := s.profiles.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	if target.ID == requesterID {
		return nil, ErrBuddySelf
	}

	var existing int64
	if err := s.db.Model(&db.Buddy{}).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			requesterID, target.ID, target.ID, requesterID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check buddy pair: %w", err)
	}
	if existing > 0 {
		return nil, ErrBuddyExists
	}

	accepted, err := s.acceptedCount(requesterID)
	if err != nil {
		return nil, err
	}
	if accepted >= MaxBuddies {
		return nil, ErrBuddyLimitReached
	}

	relation := db.Buddy{
		RequesterID: requesterID,
		AddresseeID: target.ID,
		Status:      db.BuddyStatusPending,
	}
	if err := s.db.Create(&relation).Error; err != nil {
		return nil, fmt.Errorf("create buddy request: %w", err)
	}

	return &relation, nil
}

// Accept 接受一条指向自己的待处理请求
func (s *BuddyService) Accept(addresseeID, requesterID uint) (*db.Buddy, error) {
	relation, err := s.pendingFor(addresseeID, requesterID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.acceptedCount(addresseeID)
	if err != nil {
		return nil, err
	}
	if accepted >= MaxBuddies {
		return nil, ErrBuddyLimitReached
	}

	relation.Status = db.BuddyStatusAccepted
	if err := s.db.Save(relation).Error; err != nil {
		return nil, fmt.Errorf("accept buddy request: %w", err)
	}

	return relation, nil
}

// Reject 拒绝一条指向自己的待处理请求并删除它
func (s *BuddyService) Reject(addresseeID, requesterID uint) error {
	relation, err := s.pendingFor(addresseeID, requesterID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(relation).Error; err != nil {
		return fmt.Errorf("reject buddy request: %w", err)
	}
	return nil
}

// Remove 解除与某个用户之间的好友关系（任意方向）
func (s *BuddyService) Remove(userID, otherID uint) error {
	result := s.db.Unscoped().
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID, otherID, otherID, userID).
		Delete(&db.Buddy{})
	if result.Error != nil {
		return fmt.Errorf("remove buddy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBuddyRequestNotFound
	}
	return nil
}

// ListFor 返回已接受的好友与等待自己处理的请求。
// 今日心情只附加在已接受的好友上，待处理请求看不到任何打卡数据。
func (s *BuddyService) ListFor(userID uint, now time.Time) (accepted, pending []BuddyView, err error) {
	var relations []db.Buddy
	if err := s.db.Where("requester_id = ? OR addressee_id = ?", userID, userID).
		Order("created_at ASC").
		Find(&relations).Error; err != nil {
		return nil, nil, fmt.Errorf("list buddies: %w", err)
	}

	accepted = []BuddyView{}
	pending = []BuddyView{}

	for _, relation := range relations {
		otherID := relation.RequesterID
		if otherID == userID {
			otherID = relation.AddresseeID
		}

		var other db.User
		if err := s.db.First(&other, otherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, nil, fmt.Errorf("load buddy profile: %w", err)
		}

		view := BuddyView{Relation: relation, User: other}

		switch {
		case relation.Status == db.BuddyStatusAccepted:
			checkin, err := s.checkins.TodayCheckin(otherID, now)
			if err != nil {
				return nil, nil, err
			}
			if checkin != nil {
				view.TodayMood = &TodayMood{Emoji: checkin.Emoji, Score: checkin.SentimentScore}
			}
			accepted = append(accepted, view)
		case relation.Status == db.BuddyStatusPending && relation.AddresseeID == userID:
			// 只展示等待自己处理的请求
			pending = append(pending, view)
		}
	}

	return accepted, pending, nil
}

func (s *BuddyService) pendingFor(addresseeID, requesterID uint) (*db.Buddy, error) {
	var relation db.Buddy
	err := s.db.Where("requester_id = ? AND addressee_id = ? AND status = ?",
		requesterID, addresseeID, db.BuddyStatusPending).
		First(&relation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBuddyRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load buddy request: %w", err)
	}
	return &relation, nil
}

func (s *BuddyService) acceptedCount(userID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Buddy{}).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
			userID, userID, db.BuddyStatusAccepted).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count accepted buddies: %w", err)
	}
	return count, nil
}
