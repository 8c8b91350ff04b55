package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/moodlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrGroupNotFound 在小组不存在时返回
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupNameInvalid 在小组名为空或过长时返回
	ErrGroupNameInvalid = errors.New("invalid group name")
	// ErrInviteCodeInvalid 在邀请码无效时返回
	ErrInviteCodeInvalid = errors.New("invalid invite code")
	// ErrAlreadyMember 在重复加入同一小组时返回
	ErrAlreadyMember = errors.New("already a group member")
	// ErrNotMember 在退出未加入的小组时返回
	ErrNotMember = errors.New("not a group member")
)

// GroupOverview 把小组、成员数和今日氛围打包给接口层
// TodayVibe 是成员今日打卡分值的平均数，没有任何成员打卡时为 nil
type GroupOverview struct {
	Group       db.Group
	MemberCount int64
	TodayVibe   *float64
}

// GroupService 负责小组的创建、加入、退出与氛围聚合
type GroupService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

// NewGroupService 构造 GroupService
func NewGroupService(gdb *gorm.DB) *GroupService {
	return &GroupService{db: gdb, sanitizer: bluemonday.StrictPolicy()}
}

// Create 新建小组并把创建者设为管理员成员，邀请码取自 UUID 前 8 位
func (s *GroupService) Create(userID uint, name string) (*db.Group, error) {
	cleaned := strings.TrimSpace(s.sanitizer.Sanitize(name))
	if cleaned == "" || len([]rune(cleaned)) > 40 {
		return nil, ErrGroupNameInvalid
	}

	group := db.Group{
		Name:       cleaned,
		InviteCode: newInviteCode(),
		CreatedBy:  userID,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Create(&db.GroupMember{
			GroupID: group.ID,
			UserID:  userID,
			Role:    db.GroupRoleAdmin,
		}).Error
	}); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	return &group, nil
}

// Join 通过邀请码加入小组
func (s *GroupService) Join(userID uint, inviteCode string) (*db.Group, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, ErrInviteCodeInvalid
	}

	var group db.Group
	if err := s.db.Where("invite_code = ?", code).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteCodeInvalid
		}
		return nil, fmt.Errorf("find group by invite code: %w", err)
	}

	var existing int64
	if err := s.db.Model(&db.GroupMember{}).
		Where("group_id = ? AND user_id = ?", group.ID, userID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyMember
	}

	member := db.GroupMember{GroupID: group.ID, UserID: userID, Role: db.GroupRoleMember}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, fmt.Errorf("join group: %w", err)
	}

	return &group, nil
}

// Leave 退出小组，最后一名成员退出时小组随之删除
func (s *GroupService) Leave(userID, groupID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().
			Where("group_id = ? AND user_id = ?", groupID, userID).
			Delete(&db.GroupMember{})
		if result.Error != nil {
			return fmt.Errorf("leave group: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotMember
		}

		var remaining int64
		if err := tx.Model(&db.GroupMember{}).
			Where("group_id = ?", groupID).
			Count(&remaining).Error; err != nil {
			return fmt.Errorf("count remaining members: %w", err)
		}
		if remaining == 0 {
			if err := tx.Unscoped().Delete(&db.Group{}, groupID).Error; err != nil {
				return fmt.Errorf("delete empty group: %w", err)
			}
		}
		return nil
	})
}

// ListFor 返回用户加入的所有小组及成员数与今日氛围
func (s *GroupService) ListFor(userID uint, now time.Time) ([]GroupOverview, error) {
	var groups []db.Group
	if err := s.db.
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ? AND group_members.deleted_at IS NULL", userID).
		Order("groups.created_at ASC").
		Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	overviews := make([]GroupOverview, 0, len(groups))
	for _, group := range groups {
		overview := GroupOverview{Group: group}

		if err := s.db.Model(&db.GroupMember{}).
			Where("group_id = ?", group.ID).
			Count(&overview.MemberCount).Error; err != nil {
			return nil, fmt.Errorf("count group members: %w", err)
		}

		vibe, err := s.todayVibe(group.ID, now)
		if err != nil {
			return nil, err
		}
		overview.TodayVibe = vibe

		overviews = append(overviews, overview)
	}

	return overviews, nil
}

// todayVibe 计算小组成员今日打卡分值的平均数
func (s *GroupService) todayVibe(groupID uint, now time.Time) (*float64, error) {
	start, end := dayRange(now)

	var result struct {
		Avg   float64
		Count int64
	}
	if err := s.db.Model(&db.Checkin{}).
		Select("COALESCE(AVG(checkins.sentiment_score), 0) AS avg, COUNT(*) AS count").
		Joins("JOIN group_members ON group_members.user_id = checkins.user_id").
		Where("group_members.group_id = ?", groupID).
		Where("checkins.created_at >= ? AND checkins.created_at < ?", start, end).
		Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("aggregate group vibe: %w", err)
	}

	if result.Count == 0 {
		return nil, nil
	}
	return &result.Avg, nil
}

func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
