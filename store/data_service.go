package store

import (
	"context"
	"sync"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/models"
)

// CategoryEntry 多分类提交的一项
type CategoryEntry struct {
	Category string
	Content  string
}

// CategoryResult 多分类提交的单项结果，失败的分类可由调用方单独重试
type CategoryResult struct {
	Category string `json:"category"`
	ItemID   string `json:"itemId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// DataService UI唯一入口，构造时一次性选定游客或远端存储
type DataService struct {
	store    ItemStore
	local    *LocalStore
	remote   *RemoteStore
	guest    bool
	notifier *Notifier
}

// NewDataService 远端未配置或本地带游客标记时走本地存储
func NewDataService(local *LocalStore, remote *RemoteStore) *DataService {
	guest := remote == nil || (local != nil && local.GuestFlag())
	svc := &DataService{
		local:    local,
		remote:   remote,
		guest:    guest,
		notifier: NewNotifier(),
	}
	if guest {
		svc.store = local
	} else {
		svc.store = remote
	}
	return svc
}

// IsGuestMode 路由依据是游客标记而非会话，迁移过渡期间已登录也仍按游客处理
func (s *DataService) IsGuestMode() bool {
	return s.guest
}

// Subscribe 订阅数据变更通知
func (s *DataService) Subscribe() <-chan struct{} {
	return s.notifier.Subscribe()
}

// GetItems 返回顺序不做保证，调用方自行排序
func (s *DataService) GetItems(ctx context.Context, userID, startDate, endDate string) ([]models.ReviewItem, error) {
	return s.store.List(ctx, userID, startDate, endDate)
}

func (s *DataService) AddItem(ctx context.Context, userID, content, date string) (models.ReviewItem, error) {
	item, err := s.store.Add(ctx, userID, content, date)
	if err != nil {
		return models.ReviewItem{}, err
	}
	s.notifier.Publish()
	return item, nil
}

// AddMulti 多分类并行提交，无补偿回滚，逐项返回结果
func (s *DataService) AddMulti(ctx context.Context, userID, date string, entries []CategoryEntry) []CategoryResult {
	results := make([]CategoryResult, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry CategoryEntry) {
			defer wg.Done()
			item, err := s.store.Add(ctx, userID, entry.Content, date)
			results[i].Category = entry.Category
			if err != nil {
				results[i].Error = err.Error()
				return
			}
			results[i].ItemID = item.ID
		}(i, entry)
	}
	wg.Wait()
	s.notifier.Publish()
	return results
}

func (s *DataService) UpdateItem(ctx context.Context, userID, id, content, date string) error {
	if err := s.store.Update(ctx, userID, id, content, date); err != nil {
		return err
	}
	s.notifier.Publish()
	return nil
}

func (s *DataService) DeleteItem(ctx context.Context, userID, id string) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.notifier.Publish()
	return nil
}

func (s *DataService) GetStats(ctx context.Context, userID string) (models.StatsResponse, error) {
	return s.store.Stats(ctx, userID)
}

// MigrateGuestData 本地数据整体上传远端，只有全部成功才清空本地，
// 部分失败保留本地数据以便重试
func (s *DataService) MigrateGuestData(ctx context.Context, userID string) (models.MigrateResponse, error) {
	if s.local == nil || s.remote == nil {
		return models.MigrateResponse{}, ErrNotAuthenticated
	}
	items, err := s.local.Snapshot()
	if err != nil {
		return models.MigrateResponse{}, err
	}
	if len(items) == 0 {
		// 本地为空直接成功，不发起任何远端调用
		return models.MigrateResponse{Success: true}, nil
	}

	migrated, failedBatches := s.remote.AddBatch(ctx, userID, items)
	resp := models.MigrateResponse{
		RequestedCount: len(items),
		MigratedCount:  migrated,
		Success:        failedBatches == 0 && migrated == len(items),
	}
	if resp.Success {
		if err := s.local.Clear(); err != nil {
			config.Logger.Errorw("迁移后清理本地数据失败", "error", err)
		}
		s.guest = false
		s.store = s.remote
	}
	s.notifier.Publish()
	return resp, nil
}
