package controllers

import (
	"net/http"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/models"
	"github.com/sxinguo/Review-tool/utils"

	"github.com/gin-gonic/gin"
)

// InviteController 邀请码管理控制器，全部接口在管理密钥后面
type InviteController struct{}

const (
	defaultInviteLength  = 8
	maxInviteBatch       = 100
	inviteInsertAttempts = 10
)

// CreateInviteCodes 批量生成邀请码。单个码插入冲突时换码重试，
// 最多10次；单个失败只记日志，不中断整批
func (ic *InviteController) CreateInviteCodes(c *gin.Context) {
	var req models.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > maxInviteBatch {
		req.Count = maxInviteBatch
	}
	if req.Length <= 0 {
		req.Length = defaultInviteLength
	}

	codes := make([]string, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		created := false
		for attempt := 0; attempt < inviteInsertAttempts; attempt++ {
			invite := models.InviteCode{
				ID:   utils.GenerateID(),
				Code: models.GenerateInviteCode(req.Length),
			}
			if err := config.DB.Create(&invite).Error; err != nil {
				config.Logger.Warnw("邀请码插入冲突，换码重试",
					"error", err,
					"attempt", attempt+1,
				)
				continue
			}
			codes = append(codes, invite.Code)
			created = true
			break
		}
		if !created {
			config.Logger.Errorw("邀请码生成失败，已达最大重试次数", "unit", i)
		}
	}

	c.JSON(http.StatusOK, models.InviteCodeResponse{
		RequestedCount: req.Count,
		CreatedCount:   len(codes),
		Codes:          codes,
	})
}

// ListInviteCodes 列出全部邀请码
func (ic *InviteController) ListInviteCodes(c *gin.Context) {
	var codes []models.InviteCode
	if err := config.DB.Order("created_at desc").Find(&codes).Error; err != nil {
		config.Logger.Errorw("查询邀请码失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询邀请码失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": codes})
}

// DeleteInviteCode 删除未使用的邀请码，已使用的不可删除。
// 条件删除，避免先查后删的间隙里码被注册消费
func (ic *InviteController) DeleteInviteCode(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Where("id = ? AND is_used = ?", id, false).Delete(&models.InviteCode{})
	if result.Error != nil {
		config.Logger.Errorw("删除邀请码失败", "error", result.Error, "id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除邀请码失败"})
		return
	}
	if result.RowsAffected == 0 {
		var invite models.InviteCode
		if err := config.DB.Where("id = ?", id).First(&invite).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "邀请码不存在"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "已使用的邀请码不可删除"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}
