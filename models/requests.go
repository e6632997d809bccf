package models

import (
	"fmt"
)

// LoginRequest 登录/注册请求
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	InviteCode string `json:"inviteCode"`
}

func (r *LoginRequest) Validate() error {
	if !ValidUsername(r.Username) {
		return fmt.Errorf("用户名需为3-20位字母、数字或下划线")
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("密码长度不能少于6位")
	}
	return nil
}

// AddItemRequest 新增复盘记录请求
type AddItemRequest struct {
	Content string `json:"content" binding:"required"`
	Date    string `json:"date" binding:"required"` // YYYY-MM-DD
}

// MigrateItem 游客迁移的单条记录
type MigrateItem struct {
	Content   string `json:"content"`
	Date      string `json:"date"`
	CreatedAt int64  `json:"createdAt"`
}

// MigrateRequest 游客数据迁移请求
type MigrateRequest struct {
	Items []MigrateItem `json:"items" binding:"required"`
}

// GenerateReportRequest 复盘报告生成请求
type GenerateReportRequest struct {
	PeriodType string `json:"periodType" binding:"required"` // week, month
	StartDate  string `json:"startDate" binding:"required"`  // YYYY-MM-DD
	EndDate    string `json:"endDate" binding:"required"`
	IsGuest    bool   `json:"isGuest"`
	// 游客模式下记录随请求携带
	Items []MigrateItem `json:"items"`
}

func (r *GenerateReportRequest) Validate() error {
	if r.PeriodType != "week" && r.PeriodType != "month" {
		return fmt.Errorf("无效的周期类型，仅支持week或month")
	}
	if r.StartDate == "" || r.EndDate == "" {
		return fmt.Errorf("缺少时间范围参数")
	}
	if r.StartDate > r.EndDate {
		return fmt.Errorf("开始日期不能晚于结束日期")
	}
	return nil
}

// CreateInviteRequest 批量生成邀请码请求
type CreateInviteRequest struct {
	Count  int `json:"count"`
	Length int `json:"length"`
}
