package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/utils"
)

// CheckInController records daily clean/not-clean check-ins and serves the
// streak and stats reads derived from them.
type CheckInController struct {
	db *gorm.DB
}

// NewCheckInController creates a new controller instance.
func NewCheckInController(db *gorm.DB) *CheckInController {
	return &CheckInController{db: db}
}

// LogDailyCheckin persists one check-in for the caller and date, computing
// the streak from the previous calendar day's record. A repeat submission
// for the same date overwrites the stored fields; the (user_id, date)
// unique key plus the upsert keeps the one-row-per-day invariant even under
// concurrent double-submits.
func (c *CheckInController) LogDailyCheckin(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Date     string   `json:"date" binding:"required"`
		Clean    *bool    `json:"clean" binding:"required"`
		Mood     string   `json:"mood"`
		Triggers []string `json:"triggers"`
		Journal  string   `json:"journal"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	if err := requireUser(c.db, userID); err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}
	if !utils.ValidDate(req.Date) {
		utils.Error(ctx, http.StatusBadRequest, 40041, "date must be YYYY-MM-DD")
		return
	}
	if req.Mood != "" && !models.ValidMood(req.Mood) {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid mood")
		return
	}

	clean := *req.Clean
	journal := utils.Sanitize(req.Journal)

	var triggersJSON string
	if len(req.Triggers) > 0 {
		b, err := json.Marshal(req.Triggers)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40043, "invalid triggers")
			return
		}
		triggersJSON = string(b)
	}

	prevDate, err := utils.PrevDate(req.Date)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "date must be YYYY-MM-DD")
		return
	}

	var streak int
	err = c.db.Transaction(func(tx *gorm.DB) error {
		var yesterday models.CheckIn
		err := tx.Where("user_id = ? AND date = ?", userID, prevDate).First(&yesterday).Error
		switch {
		case err == nil:
			if clean && yesterday.Clean {
				streak = yesterday.Streak + 1
			} else if clean {
				streak = 1
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if clean {
				streak = 1
			}
		default:
			return err
		}

		record := models.CheckIn{
			UserID:   userID,
			Date:     req.Date,
			Clean:    clean,
			Mood:     req.Mood,
			Triggers: triggersJSON,
			Journal:  journal,
			Streak:   streak,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"clean":      clean,
				"mood":       req.Mood,
				"triggers":   triggersJSON,
				"journal":    journal,
				"streak":     streak,
				"updated_at": time.Now(),
			}),
		}).Create(&record).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to record check-in")
		return
	}

	utils.InvalidateByPrefix(statsCachePrefix)
	utils.Success(ctx, gin.H{"success": true, "streak": streak})
}

// GetByDate returns the caller's check-in for a date, or null when none exists.
func (c *CheckInController) GetByDate(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	date := ctx.Param("date")
	if !utils.ValidDate(date) {
		utils.Error(ctx, http.StatusBadRequest, 40041, "date must be YYYY-MM-DD")
		return
	}

	var record models.CheckIn
	if err := c.db.Where("user_id = ? AND date = ?", userID, date).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(ctx, gin.H{"checkin": nil})
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load check-in")
		return
	}

	utils.Success(ctx, gin.H{"checkin": record})
}

// GetWeeklyLogs returns the caller's check-ins for the requested dates.
// Only found records are returned; callers reconcile by date, not by index.
func (c *CheckInController) GetWeeklyLogs(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	dates := ctx.QueryArray("dates")
	if len(dates) == 0 || len(dates) > 31 {
		utils.Error(ctx, http.StatusBadRequest, 40044, "dates must contain between 1 and 31 entries")
		return
	}
	for _, d := range dates {
		if !utils.ValidDate(d) {
			utils.Error(ctx, http.StatusBadRequest, 40041, "date must be YYYY-MM-DD")
			return
		}
	}

	var records []models.CheckIn
	if err := c.db.Where("user_id = ? AND date IN ?", userID, dates).Order("date ASC").Find(&records).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load check-ins")
		return
	}

	utils.Success(ctx, gin.H{"items": records})
}

// GetCurrentStreak returns the caller's live streak. A streak is considered
// broken lazily at read time: when the most recent check-in is older than
// yesterday the stored snapshot no longer counts.
func (c *CheckInController) GetCurrentStreak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	streak, err := currentStreak(c.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to compute streak")
		return
	}

	utils.Success(ctx, gin.H{"streak": streak})
}

// GetLongestStreak returns the maximum streak snapshot over all check-ins.
func (c *CheckInController) GetLongestStreak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	longest, err := longestStreak(c.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to compute longest streak")
		return
	}

	utils.Success(ctx, gin.H{"longestStreak": longest})
}

// GetStats returns aggregate check-in counts and percentages for the caller.
func (c *CheckInController) GetStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var total int64
	if err := c.db.Model(&models.CheckIn{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to count check-ins")
		return
	}

	var cleanDays int64
	if err := c.db.Model(&models.CheckIn{}).Where("user_id = ? AND clean = ?", userID, true).Count(&cleanDays).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to count check-ins")
		return
	}

	cleanPercentage := 0.0
	if total > 0 {
		cleanPercentage = float64(cleanDays) / float64(total) * 100
	}

	current, err := currentStreak(c.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to compute streak")
		return
	}
	longest, err := longestStreak(c.db, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to compute longest streak")
		return
	}

	utils.Success(ctx, gin.H{
		"total_checkins":   total,
		"clean_days":       cleanDays,
		"clean_percentage": cleanPercentage,
		"current_streak":   current,
		"longest_streak":   longest,
	})
}

// currentStreak fetches the most recent check-in and applies the lazy
// gap-break rule against today's local date.
func currentStreak(db *gorm.DB, userID uint) (int, error) {
	var latest models.CheckIn
	err := db.Where("user_id = ?", userID).Order("date DESC").First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !utils.WithinOneDay(latest.Date, utils.Today()) {
		return 0, nil
	}
	return latest.Streak, nil
}

func longestStreak(db *gorm.DB, userID uint) (int, error) {
	var longest int
	err := db.Model(&models.CheckIn{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(streak),0)").
		Scan(&longest).Error
	return longest, err
}
