package controllers

import (
	"net/http"
	"testing"

	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/utils"
)

func TestPlatformStats(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")
	caller := alice.ID
	r := newTestRouter(db, &caller)

	createStory(t, r, "day one", models.CategoryVictory)
	checkin(t, r, "2025-01-01", true)
	checkin(t, r, utils.Today(), true)

	w := perform(t, r, http.MethodGet, "/stats", nil)
	wantStatus(t, w, http.StatusOK)
	var resp struct {
		UserCount     int64 `json:"user_count"`
		StoryCount    int64 `json:"story_count"`
		CheckinCount  int64 `json:"checkin_count"`
		CheckinsToday int64 `json:"checkins_today"`
	}
	decodeData(t, w, &resp)
	if resp.UserCount != 2 {
		t.Errorf("user_count = %d, want 2", resp.UserCount)
	}
	if resp.StoryCount != 1 {
		t.Errorf("story_count = %d, want 1", resp.StoryCount)
	}
	if resp.CheckinCount != 2 {
		t.Errorf("checkin_count = %d, want 2", resp.CheckinCount)
	}
	if resp.CheckinsToday != 1 {
		t.Errorf("checkins_today = %d, want 1", resp.CheckinsToday)
	}
}
