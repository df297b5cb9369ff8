package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/utils"
)

// statsCachePrefix covers every cached stats payload; write paths that move
// the counters invalidate the whole prefix.
const (
	statsCachePrefix = "cache:stats:"
	statsCacheKey    = statsCachePrefix + "platform"
	statsCacheTTL    = time.Minute
)

// StatsController provides platform-wide statistics such as member and
// check-in counts.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the platform, served from a
// short-lived Redis cache when available.
func (s *StatsController) GetStats(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(statsCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var userCount int64
	var storyCount int64
	var checkinCount int64
	var checkinsToday int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}
	if err := s.db.Model(&models.Story{}).Count(&storyCount).Error; err != nil {
		storyCount = 0
	}
	if err := s.db.Model(&models.CheckIn{}).Count(&checkinCount).Error; err != nil {
		checkinCount = 0
	}
	if err := s.db.Model(&models.CheckIn{}).Where("date = ?", utils.Today()).Count(&checkinsToday).Error; err != nil {
		checkinsToday = 0
	}

	payload := gin.H{
		"user_count":     userCount,
		"story_count":    storyCount,
		"checkin_count":  checkinCount,
		"checkins_today": checkinsToday,
	}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(statsCacheKey, wrapper, statsCacheTTL)
	utils.Success(ctx, payload)
}
