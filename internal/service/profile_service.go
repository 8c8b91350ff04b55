package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/moodlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameInvalid 在用户名不符合规则时返回
	ErrUsernameInvalid = errors.New("invalid username")
	// ErrUsernameTaken 在用户名已被占用时返回
	ErrUsernameTaken = errors.New("username already taken")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,24}$`)

// ProfileService 负责用户资料的读取与更新
type ProfileService struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

// ProfileInput 定义可更新的资料字段
type ProfileInput struct {
	Username  string
	AvatarURL string
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb, sanitizer: bluemonday.StrictPolicy()}
}

// Get 返回用户资料
func (s *ProfileService) Get(userID uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Update 更新用户名与头像地址。用户名先过一遍 HTML 清洗再做格式校验，
// 与其他用户重名时返回 ErrUsernameTaken。
func (s *ProfileService) Update(userID uint, input ProfileInput) (*db.User, error) {
	user, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(s.sanitizer.Sanitize(input.Username))
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}

	var count int64
	if err := s.db.Model(&db.User{}).
		Where("username = ? AND id <> ?", username, userID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	user.Username = username
	user.AvatarURL = strings.TrimSpace(input.AvatarURL)

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// FindByUsername 按用户名查找用户，用于好友请求
func (s *ProfileService) FindByUsername(username string) (*db.User, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, ErrUserNotFound
	}

	var user db.User
	if err := s.db.Where("username = ?", trimmed).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}

	return &user, nil
}
