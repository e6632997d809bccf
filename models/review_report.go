package models

import (
	"time"
)

// ReviewReport AI复盘报告缓存，(用户, 周期, 起止日期) 唯一
type ReviewReport struct {
	ID         string    `gorm:"type:varchar(50);primaryKey"`
	UserID     string    `gorm:"type:varchar(50);index:idx_user_period_date,unique"`
	PeriodType string    `gorm:"type:varchar(20);index:idx_user_period_date,unique"` // week, month
	StartDate  string    `gorm:"type:varchar(10);index:idx_user_period_date,unique"`
	EndDate    string    `gorm:"type:varchar(10);index:idx_user_period_date,unique"`
	Content    string    `gorm:"type:text"` // Markdown
	CreatedAt  time.Time
}

func (ReviewReport) TableName() string {
	return "review_reports"
}
