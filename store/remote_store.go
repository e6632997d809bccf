package store

import (
	"context"
	"errors"
	"time"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/models"
	"github.com/sxinguo/Review-tool/utils"

	"gorm.io/gorm"
)

// MigrateBatchSize 迁移批量插入的单批条数
const MigrateBatchSize = 100

// RemoteStore 远端存储，所有操作都以调用方身份过滤
type RemoteStore struct {
	db *gorm.DB
}

func NewRemoteStore(db *gorm.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

func (s *RemoteStore) List(ctx context.Context, userID, startDate, endDate string) ([]models.ReviewItem, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if startDate != "" {
		query = query.Where("date >= ?", startDate)
	}
	if endDate != "" {
		query = query.Where("date <= ?", endDate)
	}
	var items []models.ReviewItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RemoteStore) Add(ctx context.Context, userID, content, date string) (models.ReviewItem, error) {
	if userID == "" {
		return models.ReviewItem{}, ErrNotAuthenticated
	}
	item := models.ReviewItem{
		ID:      utils.GenerateID(),
		Content: content,
		Date:    date,
		UserID:  userID,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return models.ReviewItem{}, err
	}
	return item, nil
}

func (s *RemoteStore) Update(ctx context.Context, userID, id, content, date string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	result := s.db.WithContext(ctx).Model(&models.ReviewItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"content": content, "date": date})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.ownershipError(ctx, id)
	}
	return nil
}

// Delete 区分记录不存在与归属他人
func (s *RemoteStore) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ReviewItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.ownershipError(ctx, id)
	}
	return nil
}

func (s *RemoteStore) ownershipError(ctx context.Context, id string) error {
	var other models.ReviewItem
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&other).Error
	if err == nil {
		return ErrForbidden
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *RemoteStore) Stats(ctx context.Context, userID string) (models.StatsResponse, error) {
	if userID == "" {
		return models.StatsResponse{}, ErrNotAuthenticated
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ReviewItem{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return models.StatsResponse{}, err
	}
	var minDate string
	row := s.db.WithContext(ctx).Model(&models.ReviewItem{}).
		Where("user_id = ?", userID).Select("MIN(date)").Row()
	_ = row.Scan(&minDate)
	return models.StatsResponse{
		TotalItems: int(count),
		TotalDays:  totalDays(minDate, time.Now()),
	}, nil
}

// AddBatch 批量插入迁移数据，每100条一个事务，失败的批次跳过继续，
// 返回成功条数与失败批次数
func (s *RemoteStore) AddBatch(ctx context.Context, userID string, items []models.MigrateItem) (int, int) {
	if len(items) == 0 {
		return 0, 0
	}
	migrated := 0
	failedBatches := 0
	for start := 0; start < len(items); start += MigrateBatchSize {
		end := start + MigrateBatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := make([]models.ReviewItem, 0, end-start)
		for _, m := range items[start:end] {
			createdAt := m.CreatedAt
			if createdAt == 0 {
				createdAt = time.Now().UnixMilli()
			}
			batch = append(batch, models.ReviewItem{
				ID:        utils.GenerateID(),
				Content:   m.Content,
				Date:      m.Date,
				CreatedAt: createdAt,
				UserID:    userID,
			})
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err != nil {
			failedBatches++
			config.Logger.Errorw("迁移批次写入失败",
				"error", err,
				"userID", userID,
				"batchStart", start,
				"batchSize", end-start,
			)
			continue
		}
		migrated += end - start
	}
	return migrated, failedBatches
}
