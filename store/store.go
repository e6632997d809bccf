package store

import (
	"context"
	"errors"
	"time"

	"github.com/sxinguo/Review-tool/models"
)

var (
	ErrNotFound         = errors.New("记录不存在")
	ErrForbidden        = errors.New("无权操作该记录")
	ErrNotAuthenticated = errors.New("未认证用户")
)

// ItemStore 复盘记录的存储能力，游客/远端各有一套实现
type ItemStore interface {
	List(ctx context.Context, userID, startDate, endDate string) ([]models.ReviewItem, error)
	Add(ctx context.Context, userID, content, date string) (models.ReviewItem, error)
	Update(ctx context.Context, userID, id, content, date string) error
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (models.StatsResponse, error)
}

// totalDays 从最早记录日期到今天的天数（含今天），无记录为0
func totalDays(minDate string, now time.Time) int {
	if minDate == "" {
		return 0
	}
	first, err := time.ParseInLocation("2006-01-02", minDate, now.Location())
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if today.Before(first) {
		return 1
	}
	return int(today.Sub(first).Hours()/24) + 1
}
