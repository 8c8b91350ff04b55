package db

import (
	"gorm.io/gorm"
)

// GroupMember 角色常量
const (
	GroupRoleAdmin  = "admin"
	GroupRoleMember = "member"
)

// Group 表示一个小组，通过邀请码加入
type Group struct {
	gorm.Model
	Name       string
	InviteCode string `gorm:"uniqueIndex"`
	CreatedBy  uint
}

// GroupMember 记录小组成员关系，GroupID + UserID 唯一
type GroupMember struct {
	gorm.Model
	GroupID uint   `gorm:"index;index:idx_group_member,unique"`
	Group   Group  `gorm:"constraint:OnDelete:CASCADE"`
	UserID  uint   `gorm:"index:idx_group_member,unique"`
	User    User   `gorm:"constraint:OnDelete:CASCADE"`
	Role    string `gorm:"default:member"`
}
