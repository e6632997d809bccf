package models

import (
	"sort"
	"strings"
)

// 固定分类标签，分类不单独存储，读取时从内容前缀解析
const (
	TagBasic    = "【基础】"
	TagEnergy   = "【蓄能】"
	TagCreation = "【创造】"

	CategoryBasic    = "basic"
	CategoryEnergy   = "energy"
	CategoryCreation = "creation"
	CategoryOther    = "other"
)

// ReviewItem 一条复盘记录
type ReviewItem struct {
	ID        string `gorm:"type:varchar(50);primaryKey" json:"id"`
	Content   string `gorm:"type:text" json:"content"`
	Date      string `gorm:"type:varchar(10);index:idx_items_user_date" json:"date"` // YYYY-MM-DD
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"createdAt"`                  // 毫秒时间戳，仅用于同类内排序
	UserID    string `gorm:"type:varchar(50);index:idx_items_user_date" json:"user_id"`
}

func (ReviewItem) TableName() string {
	return "review_items"
}

// Category 解析内容前缀得到分类，无标签归为 other
func (r *ReviewItem) Category() string {
	switch {
	case strings.HasPrefix(r.Content, TagBasic):
		return CategoryBasic
	case strings.HasPrefix(r.Content, TagEnergy):
		return CategoryEnergy
	case strings.HasPrefix(r.Content, TagCreation):
		return CategoryCreation
	default:
		return CategoryOther
	}
}

// DisplayContent 去掉分类标签后的展示文本
func (r *ReviewItem) DisplayContent() string {
	for _, tag := range []string{TagBasic, TagEnergy, TagCreation} {
		if strings.HasPrefix(r.Content, tag) {
			return strings.TrimPrefix(r.Content, tag)
		}
	}
	return r.Content
}

var categoryRank = map[string]int{
	CategoryBasic:    0,
	CategoryEnergy:   1,
	CategoryCreation: 2,
	CategoryOther:    3,
}

// SortItems 按分类（基础、蓄能、创造、其他）排序，同类内按创建时间升序
func SortItems(items []ReviewItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := categoryRank[items[i].Category()], categoryRank[items[j].Category()]
		if ri != rj {
			return ri < rj
		}
		return items[i].CreatedAt < items[j].CreatedAt
	})
}
