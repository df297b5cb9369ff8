package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/harryyking/unhooked-sub000/middleware"
	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/utils"
)

// StoryController manages the community feed: story creation, listing with
// per-caller upvote annotation, and upvote toggling.
type StoryController struct {
	db *gorm.DB
}

// NewStoryController creates a new controller instance.
func NewStoryController(db *gorm.DB) *StoryController {
	return &StoryController{db: db}
}

// CreateStory inserts a new story with zeroed counters. The caller must
// have a provisioned profile.
func (s *StoryController) CreateStory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Title    string `json:"title" binding:"required,min=1"`
		Content  string `json:"content" binding:"required"`
		Category string `json:"category" binding:"required"`
		ReadTime string `json:"read_time"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)
	if !models.ValidCategory(req.Category) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid category")
		return
	}

	if err := requireUser(s.db, userID); err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "user profile not found")
		return
	}

	readTime := strings.TrimSpace(req.ReadTime)
	if readTime == "" {
		readTime = utils.EstimateReadTime(content)
	}

	story := models.Story{
		UserID:   userID,
		Title:    title,
		Content:  content,
		Category: req.Category,
		ReadTime: readTime,
	}
	if err := s.db.Create(&story).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create story")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix)
	utils.Success(ctx, gin.H{"id": story.ID})
}

// storyItem is a story annotated with the caller's upvote state.
type storyItem struct {
	models.Story
	HasUpvoted bool `json:"has_upvoted"`
}

// ListStories returns paginated stories under one of three orderings:
// recent (newest first), top (most upvoted), trending (most upvoted of the
// last 7 days). Each story carries whether the caller has upvoted it.
func (s *StoryController) ListStories(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	filter := strings.TrimSpace(ctx.Query("filter"))

	query := s.db.Model(&models.Story{}).Preload("User")
	switch filter {
	case "top":
		query = query.Order("upvotes DESC, created_at DESC")
	case "trending":
		weekAgo := time.Now().AddDate(0, 0, -7)
		query = query.Where("created_at >= ?", weekAgo).Order("upvotes DESC, created_at DESC")
	case "recent", "":
		query = query.Order("created_at DESC")
	default:
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid filter")
		return
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count stories")
		return
	}

	var stories []models.Story
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&stories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list stories")
		return
	}

	upvoted, err := s.upvotedSet(userID, stories)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load upvotes")
		return
	}

	items := make([]storyItem, 0, len(stories))
	for _, story := range stories {
		items = append(items, storyItem{Story: story, HasUpvoted: upvoted[story.ID]})
	}

	utils.Success(ctx, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// upvotedSet returns the IDs among stories that userID has upvoted.
func (s *StoryController) upvotedSet(userID uint, stories []models.Story) (map[uint]bool, error) {
	set := make(map[uint]bool, len(stories))
	if len(stories) == 0 {
		return set, nil
	}
	ids := make([]uint, 0, len(stories))
	for _, story := range stories {
		ids = append(ids, story.ID)
	}
	var rows []models.Upvote
	if err := s.db.Where("user_id = ? AND story_id IN ?", userID, ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		set[row.StoryID] = true
	}
	return set, nil
}

// UpvoteStory toggles the caller's upvote. The join-row mutation and the
// counter patch run in a single transaction so they cannot drift.
func (s *StoryController) UpvoteStory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	storyID := ctx.Param("id")
	var story models.Story
	if err := s.db.First(&story, storyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "story not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load story")
		return
	}

	var hasUpvoted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Upvote
		err := tx.Where("user_id = ? AND story_id = ?", userID, story.ID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			return tx.Model(&models.Story{}).
				Where("id = ? AND upvotes > 0", story.ID).
				UpdateColumn("upvotes", gorm.Expr("upvotes - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Upvote{UserID: userID, StoryID: story.ID}).Error; err != nil {
				return err
			}
			hasUpvoted = true
			return tx.Model(&models.Story{}).
				Where("id = ?", story.ID).
				UpdateColumn("upvotes", gorm.Expr("upvotes + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to toggle upvote")
		return
	}

	utils.Success(ctx, gin.H{"has_upvoted": hasUpvoted})
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
