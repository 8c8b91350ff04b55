package db

import (
	"gorm.io/gorm"
)

// Buddy 状态常量
const (
	BuddyStatusPending  = "pending"
	BuddyStatusAccepted = "accepted"
)

// Buddy 表示两个用户之间的好友关系
// RequesterID 为发起方，AddresseeID 为接收方，二者组合唯一
type Buddy struct {
	gorm.Model
	RequesterID uint   `gorm:"index;index:idx_buddy_pair,unique"`
	AddresseeID uint   `gorm:"index;index:idx_buddy_pair,unique"`
	Status      string `gorm:"default:pending"`
}

// TableName 保持表名与唯一索引语义一致
func (Buddy) TableName() string {
	return "buddies"
}
