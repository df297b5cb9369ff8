package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harryyking/unhooked-sub000/config"
	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/utils"
)

// AudioController lists guided audio resources, resolving storage keys into
// playable URLs at read time.
type AudioController struct {
	db *gorm.DB
}

// NewAudioController creates a new controller instance.
func NewAudioController(db *gorm.DB) *AudioController {
	return &AudioController{db: db}
}

const audioListCacheKey = "cache:audios:list"

// audioItem is an audio resource with its resolved URL. URL is null when
// the storage key cannot be resolved.
type audioItem struct {
	models.AudioResource
	URL *string `json:"url"`
}

// ListAudios returns all audio resources with resolved playback URLs.
func (a *AudioController) ListAudios(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(audioListCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var resources []models.AudioResource
	if err := a.db.Order("created_at ASC").Find(&resources).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list audio resources")
		return
	}

	items := make([]audioItem, 0, len(resources))
	for _, res := range resources {
		items = append(items, audioItem{AudioResource: res, URL: resolveAudioURL(res.StorageKey)})
	}

	payload := gin.H{"items": items}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(audioListCacheKey, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// resolveAudioURL joins the configured asset base URL with the storage key.
// Returns nil when either side is missing, mirroring a failed resolution.
func resolveAudioURL(storageKey string) *string {
	base := strings.TrimRight(config.Get().AssetBaseURL, "/")
	key := strings.TrimLeft(strings.TrimSpace(storageKey), "/")
	if base == "" || key == "" {
		return nil
	}
	url := base + "/" + key
	return &url
}
