package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sxinguo/Review-tool/config"
	"github.com/sxinguo/Review-tool/middleware"
	"github.com/sxinguo/Review-tool/models"
	"github.com/sxinguo/Review-tool/store"
	"github.com/sxinguo/Review-tool/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItemRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)
	remote := store.NewRemoteStore(config.DB)
	svc := store.NewDataService(nil, remote)
	ic := NewItemController(svc, remote)

	r := gin.New()
	items := r.Group("/api/items")
	items.Use(middleware.AuthMiddleware())
	items.GET("", ic.ListItems)
	items.POST("", ic.AddItem)
	items.PUT("", ic.UpdateItem)
	items.DELETE("", ic.DeleteItem)
	items.GET("/stats", ic.GetStats)
	items.POST("/migrate", ic.Migrate)
	return r
}

func itemRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestItemsRequireToken(t *testing.T) {
	r := newItemRouter(t)

	w, _ := itemRequest(t, r, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = itemRequest(t, r, http.MethodGet, "/api/items", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddThenListItem(t *testing.T) {
	r := newItemRouter(t)
	token, err := utils.GenerateToken("user-1")
	require.NoError(t, err)

	w, resp := itemRequest(t, r, http.MethodPost, "/api/items", token,
		map[string]interface{}{"content": "【基础】洗漱", "date": "2024-01-01"})
	require.Equal(t, http.StatusOK, w.Code)
	item := resp["item"].(map[string]interface{})
	assert.NotEmpty(t, item["id"])

	w, resp = itemRequest(t, r, http.MethodGet, "/api/items?startDate=2024-01-01&endDate=2024-01-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	got := items[0].(map[string]interface{})
	assert.Equal(t, "【基础】洗漱", got["content"])
	assert.Equal(t, "2024-01-01", got["date"])
}

func TestDeleteItemOwnership(t *testing.T) {
	r := newItemRouter(t)
	owner, _ := utils.GenerateToken("user-1")
	intruder, _ := utils.GenerateToken("user-2")

	_, resp := itemRequest(t, r, http.MethodPost, "/api/items", owner,
		map[string]interface{}{"content": "内容", "date": "2024-01-01"})
	id := resp["item"].(map[string]interface{})["id"].(string)

	// 归属他人 → 403，记录不存在 → 404
	w, _ := itemRequest(t, r, http.MethodDelete, "/api/items?id="+id, intruder, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = itemRequest(t, r, http.MethodDelete, "/api/items?id=no-such-id", owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = itemRequest(t, r, http.MethodDelete, "/api/items?id="+id, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMigrateEndpoint(t *testing.T) {
	r := newItemRouter(t)
	token, _ := utils.GenerateToken("user-1")

	// 空集直接成功
	w, resp := itemRequest(t, r, http.MethodPost, "/api/items/migrate", token,
		map[string]interface{}{"items": []interface{}{}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.EqualValues(t, 0, resp["migratedCount"])

	w, resp = itemRequest(t, r, http.MethodPost, "/api/items/migrate", token,
		map[string]interface{}{"items": []interface{}{
			map[string]interface{}{"content": "【基础】洗漱", "date": "2024-01-01", "createdAt": 1704067200000},
			map[string]interface{}{"content": "随便写的", "date": "2024-01-02"},
		}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.EqualValues(t, 2, resp["migratedCount"])

	var count int64
	config.DB.Model(&models.ReviewItem{}).Where("user_id = ?", "user-1").Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestStatsEndpoint(t *testing.T) {
	r := newItemRouter(t)
	token, _ := utils.GenerateToken("user-1")

	w, resp := itemRequest(t, r, http.MethodGet, "/api/items/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, resp["totalItems"])
	assert.EqualValues(t, 0, resp["totalDays"])

	itemRequest(t, r, http.MethodPost, "/api/items", token,
		map[string]interface{}{"content": "内容", "date": "2024-01-01"})

	_, resp = itemRequest(t, r, http.MethodGet, "/api/items/stats", token, nil)
	assert.EqualValues(t, 1, resp["totalItems"])
}
