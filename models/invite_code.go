package models

import (
	"math/rand"
	"time"
)

// InviteCode 一次性注册邀请码
type InviteCode struct {
	ID        string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Code      string     `gorm:"type:varchar(32);uniqueIndex" json:"code"`
	IsUsed    bool       `gorm:"default:false" json:"isUsed"`
	UsedBy    *string    `gorm:"type:varchar(50);index" json:"usedBy"`
	UsedAt    *time.Time `json:"usedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (InviteCode) TableName() string {
	return "invite_codes"
}

// 去掉容易混淆的字符（0/O/1/I）
const inviteCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var codeRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateInviteCode 生成指定长度的随机邀请码
func GenerateInviteCode(length int) string {
	code := make([]byte, length)
	for i := range code {
		code[i] = inviteCharset[codeRand.Intn(len(inviteCharset))]
	}
	return string(code)
}
