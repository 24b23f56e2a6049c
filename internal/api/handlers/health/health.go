package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-catalog/internal/core/recipe"
	"recipe-catalog/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   recipe.Stats           `json:"catalog"`
	Search    SearchStatus           `json:"search"`
}

// SearchStatus 搜尋延遲狀態
type SearchStatus struct {
	Pending  bool   `json:"pending"`
	Debounce string `json:"debounce"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg     *config.Config
	service *recipe.Service
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, service *recipe.Service) *Handler {
	return &Handler{cfg: cfg, service: service}
}

// HealthCheck 回傳版本、執行期與目錄統計
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: h.service.Stats(),
		Search: SearchStatus{
			Pending:  h.service.SearchPending(),
			Debounce: h.cfg.Search.Debounce.String(),
		},
	})
}

// ReadinessCheck 目錄為空時回報尚未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	stats := h.service.Stats()
	if stats.Recipes == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not ready",
			"recipes": 0,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"recipes": stats.Recipes,
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
