package store

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/sxinguo/Review-tool/models"
)

// localMeta 游客模式元数据
type localMeta struct {
	FirstRecordDate string `json:"firstRecordDate,omitempty"` // RFC3339，首次写入时间
}

// LocalStore 游客模式存储，全部数据落在注入的KV里。
// 多分类提交会并行写入，读改写需要加锁
type LocalStore struct {
	mu  sync.Mutex
	kv  KV
	now func() time.Time
}

func NewLocalStore(kv KV) *LocalStore {
	return &LocalStore{kv: kv, now: time.Now}
}

func (s *LocalStore) loadItems() ([]models.ReviewItem, error) {
	data, ok, err := s.kv.Get(KeyItems)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var items []models.ReviewItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *LocalStore) saveItems(items []models.ReviewItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(KeyItems, data)
}

// List 闭区间日期字符串比较过滤，起止为空表示不限
func (s *LocalStore) List(ctx context.Context, userID, startDate, endDate string) ([]models.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	if startDate == "" && endDate == "" {
		return items, nil
	}
	filtered := make([]models.ReviewItem, 0, len(items))
	for _, item := range items {
		if startDate != "" && item.Date < startDate {
			continue
		}
		if endDate != "" && item.Date > endDate {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}

func (s *LocalStore) Add(ctx context.Context, userID, content, date string) (models.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems()
	if err != nil {
		return models.ReviewItem{}, err
	}

	now := s.now()
	id := strconv.FormatInt(now.UnixMilli(), 10)
	for exists := true; exists; {
		exists = false
		for _, item := range items {
			if item.ID == id {
				// 同一毫秒内重复写入时顺延
				n, _ := strconv.ParseInt(id, 10, 64)
				id = strconv.FormatInt(n+1, 10)
				exists = true
				break
			}
		}
	}

	item := models.ReviewItem{
		ID:        id,
		Content:   content,
		Date:      date,
		CreatedAt: now.UnixMilli(),
	}
	items = append(items, item)
	if err := s.saveItems(items); err != nil {
		return models.ReviewItem{}, err
	}

	// 首条记录时写入 firstRecordDate 元数据
	if _, ok, _ := s.kv.Get(KeyMeta); !ok {
		meta := localMeta{FirstRecordDate: now.Format(time.RFC3339)}
		if data, err := json.Marshal(meta); err == nil {
			_ = s.kv.Set(KeyMeta, data)
		}
	}
	return item, nil
}

func (s *LocalStore) Update(ctx context.Context, userID, id, content, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Content = content
			items[i].Date = date
			return s.saveItems(items)
		}
	}
	return ErrNotFound
}

// Delete 幂等删除，不存在时也算成功
func (s *LocalStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems()
	if err != nil {
		return err
	}
	filtered := items[:0]
	for _, item := range items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	return s.saveItems(filtered)
}

func (s *LocalStore) Stats(ctx context.Context, userID string) (models.StatsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems()
	if err != nil {
		return models.StatsResponse{}, err
	}
	minDate := ""
	for _, item := range items {
		if minDate == "" || item.Date < minDate {
			minDate = item.Date
		}
	}
	return models.StatsResponse{
		TotalItems: len(items),
		TotalDays:  totalDays(minDate, s.now()),
	}, nil
}

// Count 本地记录条数
func (s *LocalStore) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Snapshot 导出全部本地记录，迁移用
func (s *LocalStore) Snapshot() ([]models.MigrateItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	out := make([]models.MigrateItem, len(items))
	for i, item := range items {
		out[i] = models.MigrateItem{Content: item.Content, Date: item.Date, CreatedAt: item.CreatedAt}
	}
	return out, nil
}

// Clear 清空本地记录与元数据，仅在迁移完全成功后调用
func (s *LocalStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(KeyItems); err != nil {
		return err
	}
	if err := s.kv.Delete(KeyMeta); err != nil {
		return err
	}
	return s.kv.Delete(KeyGuestFlag)
}

// GuestFlag 读取游客标记
func (s *LocalStore) GuestFlag() bool {
	_, ok, _ := s.kv.Get(KeyGuestFlag)
	return ok
}

// SetGuestFlag 写入游客标记
func (s *LocalStore) SetGuestFlag() error {
	return s.kv.Set(KeyGuestFlag, []byte("1"))
}
