package controllers

import (
	"errors"
	"net/http"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/models"
	"github.com/sxinguo/Review-tool/store"

	"github.com/gin-gonic/gin"
)

// ItemController 复盘记录控制器，存储策略由注入的DataService在构造期选定
type ItemController struct {
	svc    *store.DataService
	remote *store.RemoteStore
}

func NewItemController(svc *store.DataService, remote *store.RemoteStore) *ItemController {
	return &ItemController{svc: svc, remote: remote}
}

func itemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证用户"})
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "无权操作该记录"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "记录不存在"})
	default:
		config.Logger.Errorw("复盘记录操作失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
	}
}

// ListItems 按日期范围列出记录，返回顺序不做保证
func (ic *ItemController) ListItems(c *gin.Context) {
	uid := c.GetString("uid")
	items, err := ic.svc.GetItems(c.Request.Context(), uid, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddItem 新增一条记录
func (ic *ItemController) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetString("uid")
	item, err := ic.svc.AddItem(c.Request.Context(), uid, req.Content, req.Date)
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateItem 修改记录内容或日期
func (ic *ItemController) UpdateItem(c *gin.Context) {
	var req struct {
		ID      string `json:"id" binding:"required"`
		Content string `json:"content" binding:"required"`
		Date    string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetString("uid")
	if err := ic.svc.UpdateItem(c.Request.Context(), uid, req.ID, req.Content, req.Date); err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// DeleteItem 删除记录，游客模式幂等
func (ic *ItemController) DeleteItem(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少记录ID"})
		return
	}

	uid := c.GetString("uid")
	if err := ic.svc.DeleteItem(c.Request.Context(), uid, id); err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// GetStats 统计数据
func (ic *ItemController) GetStats(c *gin.Context) {
	uid := c.GetString("uid")
	stats, err := ic.svc.GetStats(c.Request.Context(), uid)
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Migrate 游客数据批量上传，每100条一批，按批尽力而为，
// 响应里报告成功条数，客户端只在全部成功后清理本地数据
func (ic *ItemController) Migrate(c *gin.Context) {
	uid := c.GetString("uid")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证用户"})
		return
	}

	var req models.MigrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusOK, models.MigrateResponse{Success: true})
		return
	}

	migrated, failedBatches := ic.remote.AddBatch(c.Request.Context(), uid, req.Items)
	c.JSON(http.StatusOK, models.MigrateResponse{
		Success:        failedBatches == 0 && migrated == len(req.Items),
		RequestedCount: len(req.Items),
		MigratedCount:  migrated,
	})
}
