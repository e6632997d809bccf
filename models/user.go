package models

import (
	"regexp"
	"time"
)

// User 用户模型，用户名+密码登录，注册需要邀请码
type User struct {
	ID           string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Username     string     `gorm:"type:varchar(20);uniqueIndex" json:"username"`
	PasswordHash string     `gorm:"type:varchar(100)" json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Profile 用户附属资料，注册时尽力创建，失败不回滚账号
type Profile struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);uniqueIndex" json:"user_id"`
	Nickname  string    `gorm:"type:varchar(50)" json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// ValidUsername 用户名限 3-20 位字母数字下划线
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}
