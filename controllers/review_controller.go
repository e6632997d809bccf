package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/models"
	"github.com/sxinguo/Review-tool/services"
	"github.com/sxinguo/Review-tool/store"
	"github.com/sxinguo/Review-tool/utils"

	"github.com/gin-gonic/gin"
)

// ReviewController 复盘报告控制器
type ReviewController struct {
	svc    *store.DataService
	report *services.ReportService
}

func NewReviewController(svc *store.DataService, report *services.ReportService) *ReviewController {
	return &ReviewController{svc: svc, report: report}
}

func reportCacheKey(uid, periodType, startDate, endDate string) string {
	return fmt.Sprintf("review:report:%s:%s:%s:%s", uid, periodType, startDate, endDate)
}

// Generate 生成或取缓存的复盘报告。
// 游客请求随身携带记录，绕过认证与缓存；认证请求先查Redis再查库，
// 新报告落库与写缓存都是尽力而为，失败不影响本次响应
func (rc *ReviewController) Generate(c *gin.Context) {
	var req models.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if req.IsGuest {
		items := make([]models.ReviewItem, len(req.Items))
		for i, m := range req.Items {
			items[i] = models.ReviewItem{Content: m.Content, Date: m.Date, CreatedAt: m.CreatedAt}
		}
		content := rc.report.Generate(ctx, req.PeriodType, req.StartDate, req.EndDate, items)
		c.JSON(http.StatusOK, models.ReportResponse{Content: content})
		return
	}

	uid := c.GetString("uid")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未认证用户"})
		return
	}

	// 游客单机部署没有数据库，认证报告路径直接拒绝，不能走到下面的查询
	if config.DB == nil || rc.svc.IsGuestMode() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "服务未配置数据库，请使用游客模式"})
		return
	}

	cacheKey := reportCacheKey(uid, req.PeriodType, req.StartDate, req.EndDate)
	if config.RedisClient != nil {
		if cached, err := config.RedisClient.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			c.JSON(http.StatusOK, models.ReportResponse{Content: cached, Cached: true})
			return
		}
	}

	var existing models.ReviewReport
	err := config.DB.Where("user_id = ? AND period_type = ? AND start_date = ? AND end_date = ?",
		uid, req.PeriodType, req.StartDate, req.EndDate).First(&existing).Error
	if err == nil {
		rc.cacheToRedis(cacheKey, existing.Content)
		c.JSON(http.StatusOK, models.ReportResponse{Content: existing.Content, Cached: true})
		return
	}

	items, err := rc.svc.GetItems(ctx, uid, req.StartDate, req.EndDate)
	if err != nil {
		config.Logger.Errorw("查询复盘记录失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取复盘记录失败"})
		return
	}

	content := rc.report.Generate(ctx, req.PeriodType, req.StartDate, req.EndDate, items)

	report := models.ReviewReport{
		ID:         utils.GenerateID(),
		UserID:     uid,
		PeriodType: req.PeriodType,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	if err := config.DB.Create(&report).Error; err != nil {
		config.Logger.Errorw("存储复盘报告失败",
			"error", err,
			"uid", uid,
			"periodType", req.PeriodType,
		)
	}
	rc.cacheToRedis(cacheKey, content)

	c.JSON(http.StatusOK, models.ReportResponse{Content: content})
}

func (rc *ReviewController) cacheToRedis(key, content string) {
	if config.RedisClient == nil {
		return
	}
	if err := config.RedisClient.Set(config.RedisCtx(), key, content, 0).Err(); err != nil {
		config.Logger.Errorw("写入报告缓存失败", "error", err, "key", key)
	}
}
