package routes

import (
	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/controllers"
	"github.com/sxinguo/Review-tool/middleware"
	"github.com/sxinguo/Review-tool/services"
	"github.com/sxinguo/Review-tool/store"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, conf config.Config, svc *store.DataService, remote *store.RemoteStore, reportService *services.ReportService) {
	itemController := controllers.NewItemController(svc, remote)
	reviewController := controllers.NewReviewController(svc, reportService)

	api := r.Group("/api")

	// 报告接口对游客开放，带令牌则按认证用户走缓存
	review := api.Group("/review")
	review.Use(middleware.OptionalAuthMiddleware())
	review.POST("/generate", reviewController.Generate)

	if svc.IsGuestMode() {
		// 游客单机模式：无数据库，记录接口直接落本地存储
		items := api.Group("/items")
		items.GET("", itemController.ListItems)
		items.POST("", itemController.AddItem)
		items.PUT("", itemController.UpdateItem)
		items.DELETE("", itemController.DeleteItem)
		items.GET("/stats", itemController.GetStats)
	} else {
		authController := controllers.AuthController{}
		api.POST("/auth/login", authController.Login)

		items := api.Group("/items")
		items.Use(middleware.AuthMiddleware())
		items.GET("", itemController.ListItems)
		items.POST("", itemController.AddItem)
		items.PUT("", itemController.UpdateItem)
		items.DELETE("", itemController.DeleteItem)
		items.GET("/stats", itemController.GetStats)
		items.POST("/migrate", itemController.Migrate)

		inviteController := controllers.InviteController{}
		invite := api.Group("/invite")
		invite.Use(middleware.AdminAuthMiddleware(conf.AdminAPIKey))
		invite.POST("/create", inviteController.CreateInviteCodes)
		invite.GET("/list", inviteController.ListInviteCodes)
		invite.DELETE("/:id", inviteController.DeleteInviteCode)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
