package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/moodlog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const loginCodeTTL = 15 * time.Minute

var (
	// ErrEmailInvalid 在邮箱格式明显不合法时返回
	ErrEmailInvalid = errors.New("invalid email address")
	// ErrLoginCodeInvalid 在验证码错误或已消费时返回
	ErrLoginCodeInvalid = errors.New("invalid login code")
	// ErrLoginCodeExpired 在验证码过期时返回
	ErrLoginCodeExpired = errors.New("login code expired")
)

// AuthService 实现免密登录：邮箱换取一次性验证码，验证码换取会话。
// 验证码只以 bcrypt 哈希落库，15 分钟过期，单次有效。
type AuthService struct {
	db *gorm.DB
}

// NewAuthService 构造 AuthService
func NewAuthService(gdb *gorm.DB) *AuthService {
	return &AuthService{db: gdb}
}

// RequestCode 为邮箱签发一个 6 位登录验证码，邮箱不存在时自动注册。
// 返回明文验证码交由调用方投递（本服务不负责发信），旧的未消费验证码随即作废。
func (s *AuthService) RequestCode(email string, now time.Time) (*db.User, string, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}

	var user db.User
	err = s.db.Where("email = ?", normalized).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = db.User{Email: normalized}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	code, err := generateLoginCode()
	if err != nil {
		return nil, "", fmt.Errorf("generate login code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash login code: %w", err)
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.LoginCode{}).
			Where("user_id = ? AND consumed_at IS NULL", user.ID).
			Update("consumed_at", now).Error; err != nil {
			return err
		}
		return tx.Create(&db.LoginCode{
			UserID:    user.ID,
			CodeHash:  string(hash),
			ExpiresAt: now.Add(loginCodeTTL),
		}).Error
	}); err != nil {
		return nil, "", fmt.Errorf("store login code: %w", err)
	}

	return &user, code, nil
}

// Redeem 校验验证码并返回对应用户，验证码随即标记为已消费。
func (s *AuthService) Redeem(email, code string, now time.Time) (*db.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	var user db.User
	if err := s.db.Where("email = ?", normalized).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoginCodeInvalid
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var record db.LoginCode
	err = s.db.Where("user_id = ? AND consumed_at IS NULL", user.ID).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoginCodeInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("load login code: %w", err)
	}

	if now.After(record.ExpiresAt) {
		return nil, ErrLoginCodeExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		return nil, ErrLoginCodeInvalid
	}

	if err := s.db.Model(&record).Update("consumed_at", now).Error; err != nil {
		return nil, fmt.Errorf("consume login code: %w", err)
	}

	return &user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	at := strings.Index(normalized, "@")
	if at <= 0 || at == len(normalized)-1 {
		return "", ErrEmailInvalid
	}
	return normalized, nil
}

func generateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
