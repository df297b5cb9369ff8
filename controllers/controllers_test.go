package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harryyking/unhooked-sub000/middleware"
	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ASSET_BASE_URL", "https://cdn.example.com/assets/")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestDB opens a per-test in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.CheckIn{},
		&models.Invite{},
		&models.Partnership{},
		&models.Story{},
		&models.Upvote{},
		&models.AudioResource{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter builds the protected API surface with the caller identity
// taken from *caller, so tests can switch users between requests.
func newTestRouter(db *gorm.DB, caller *uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, *caller)
		c.Next()
	})

	checkinController := NewCheckInController(db)
	inviteController := NewInviteController(db)
	storyController := NewStoryController(db)
	audioController := NewAudioController(db)

	r.POST("/checkins", checkinController.LogDailyCheckin)
	r.GET("/checkins/date/:date", checkinController.GetByDate)
	r.GET("/checkins/weekly", checkinController.GetWeeklyLogs)
	r.GET("/checkins/streak", checkinController.GetCurrentStreak)
	r.GET("/checkins/streak/longest", checkinController.GetLongestStreak)
	r.GET("/checkins/stats", checkinController.GetStats)

	r.POST("/invites", inviteController.GenerateInvite)
	r.POST("/invites/redeem", inviteController.RedeemInvite)
	r.GET("/invites/partners", inviteController.ListPartners)

	r.POST("/stories", storyController.CreateStory)
	r.GET("/stories", storyController.ListStories)
	r.POST("/stories/:id/upvote", storyController.UpvoteStory)

	r.GET("/audios", audioController.ListAudios)
	r.GET("/stats", NewStatsController(db).GetStats)

	return r
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Provider: "local"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// perform issues a request against the router and returns the recorder.
func perform(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of the standard response envelope.
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	if len(envelope.Data) > 0 && out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, string(envelope.Data))
		}
	}
}

// errorMessage extracts the message field from an error response.
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope utils.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, w.Body.String())
	}
	return envelope.Message
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}

func checkin(t *testing.T, r *gin.Engine, date string, clean bool) int {
	t.Helper()
	w := perform(t, r, http.MethodPost, "/checkins", gin.H{"date": date, "clean": clean})
	wantStatus(t, w, http.StatusOK)
	var resp struct {
		Success bool `json:"success"`
		Streak  int  `json:"streak"`
	}
	decodeData(t, w, &resp)
	if !resp.Success {
		t.Fatalf("check-in for %s not successful", date)
	}
	return resp.Streak
}
