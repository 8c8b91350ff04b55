package db

import (
	"time"

	"gorm.io/gorm"
)

// User 定义了用户模型
// Email 是登录身份（邮箱验证码免密登录），Username 为展示名，可延后设置。
// Username 唯一性由 ProfileService 在更新时校验，未设置时多为空串，不能建唯一索引
type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex;not null"`
	Username  string `gorm:"index"`
	AvatarURL string
}

// LoginCode 记录一次性邮箱登录验证码
// 验证码以 bcrypt 哈希形式存储，ConsumedAt 非空表示已被消费
type LoginCode struct {
	gorm.Model
	UserID     uint `gorm:"index"`
	User       User `gorm:"constraint:OnDelete:CASCADE"`
	CodeHash   string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}
