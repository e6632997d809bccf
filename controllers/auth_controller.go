package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/models"
	"github.com/sxinguo/Review-tool/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthController 认证控制器
type AuthController struct{}

var errInviteTaken = errors.New("邀请码已被抢先使用")

// Login 用户名+密码登录，账号不存在时凭邀请码注册。
// 流程：尝试登录 → 判断账号是否存在 → 要求/校验邀请码 → 注册
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 尝试登录
	var user models.User
	err := config.DB.Where("username = ?", req.Username).First(&user).Error
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			// 账号存在但密码错误，与账号不存在区分开，客户端据此决定是否提示填邀请码
			c.JSON(http.StatusUnauthorized, gin.H{"error": "用户名或密码错误"})
			return
		}
		ac.finishLogin(c, &user, false)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		config.Logger.Errorw("查询用户失败", "error", err, "username", req.Username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败"})
		return
	}

	// 账号不存在，需要邀请码注册
	if req.InviteCode == "" {
		c.JSON(http.StatusOK, models.LoginResponse{NeedsInviteCode: true})
		return
	}
	ac.register(c, &req)
}

func (ac *AuthController) register(c *gin.Context, req *models.LoginRequest) {
	// 邀请码统一大写匹配
	codeStr := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	var invite models.InviteCode
	if err := config.DB.Where("code = ? AND is_used = ?", codeStr, false).First(&invite).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "邀请码无效或已被使用"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败"})
		return
	}

	user := models.User{
		ID:           utils.GenerateID(),
		Username:     req.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	// 建号与消费邀请码放在同一事务，条件更新保证一码只用一次，
	// 并发抢同一个码时只有一方能提交
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		now := time.Now()
		result := tx.Model(&models.InviteCode{}).
			Where("id = ? AND is_used = ?", invite.ID, false).
			Updates(map[string]interface{}{
				"is_used": true,
				"used_by": user.ID,
				"used_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errInviteTaken
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errInviteTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "邀请码无效或已被使用"})
			return
		}
		config.Logger.Errorw("用户注册失败", "error", err, "username", req.Username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败"})
		return
	}

	// 附属资料尽力创建，失败只记日志，不回滚账号
	profile := models.Profile{
		ID:       utils.GenerateID(),
		UserID:   user.ID,
		Nickname: user.Username,
	}
	if err := config.DB.Create(&profile).Error; err != nil {
		config.Logger.Errorw("创建用户资料失败", "error", err, "userID", user.ID)
	}

	config.Logger.Infow("新用户注册成功", "userID", user.ID, "inviteCode", codeStr)
	ac.finishLogin(c, &user, true)
}

func (ac *AuthController) finishLogin(c *gin.Context, user *models.User, isNewUser bool) {
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "令牌生成失败"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(user).Update("last_login", now).Error; err != nil {
		config.Logger.Errorw("更新登录时间失败", "error", err, "userID", user.ID)
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     token,
		IsNewUser: isNewUser,
		User:      user,
	})
}
