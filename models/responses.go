package models

// LoginResponse 登录响应
type LoginResponse struct {
	Token           string `json:"token,omitempty"`
	IsNewUser       bool   `json:"isNewUser,omitempty"`
	NeedsInviteCode bool   `json:"needsInviteCode,omitempty"`
	User            *User  `json:"user,omitempty"`
}

// MigrateResponse 迁移结果，按批尽力而为
type MigrateResponse struct {
	Success        bool `json:"success"`
	RequestedCount int  `json:"requestedCount"`
	MigratedCount  int  `json:"migratedCount"`
}

// StatsResponse 统计数据
type StatsResponse struct {
	TotalItems int `json:"totalItems"`
	TotalDays  int `json:"totalDays"`
}

// ReportResponse 复盘报告
type ReportResponse struct {
	Content string `json:"content"` // Markdown
	Cached  bool   `json:"cached"`
}

// InviteCodeResponse 批量生成邀请码结果
type InviteCodeResponse struct {
	RequestedCount int      `json:"requestedCount"`
	CreatedCount   int      `json:"createdCount"`
	Codes          []string `json:"codes"`
}
