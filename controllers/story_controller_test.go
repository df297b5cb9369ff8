package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harryyking/unhooked-sub000/models"
)

type storyListResp struct {
	Items []struct {
		ID         uint   `json:"id"`
		Title      string `json:"title"`
		Category   string `json:"category"`
		ReadTime   string `json:"read_time"`
		Upvotes    int    `json:"upvotes"`
		Comments   int    `json:"comments"`
		HasUpvoted bool   `json:"has_upvoted"`
		Author     struct {
			Username string `json:"username"`
		} `json:"author"`
	} `json:"items"`
	Pagination struct {
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	} `json:"pagination"`
}

func createStory(t *testing.T, r *gin.Engine, title, category string) uint {
	t.Helper()
	w := perform(t, r, http.MethodPost, "/stories", gin.H{
		"title":    title,
		"content":  "One day at a time.",
		"category": category,
	})
	wantStatus(t, w, http.StatusOK)
	var resp struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &resp)
	return resp.ID
}

func TestCreateStoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	caller := user.ID
	r := newTestRouter(db, &caller)

	content := "It was hard at first but the mornings got easier. " +
		"I started running and calling my brother when the urge hit."
	w := perform(t, r, http.MethodPost, "/stories", gin.H{
		"title":    "Ninety days",
		"content":  content,
		"category": models.CategoryVictory,
	})
	wantStatus(t, w, http.StatusOK)

	w = perform(t, r, http.MethodGet, "/stories", nil)
	wantStatus(t, w, http.StatusOK)
	var list storyListResp
	decodeData(t, w, &list)
	if len(list.Items) != 1 {
		t.Fatalf("stories = %d, want 1", len(list.Items))
	}
	got := list.Items[0]
	if got.Title != "Ninety days" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Category != models.CategoryVictory {
		t.Errorf("category = %q", got.Category)
	}
	if got.Upvotes != 0 || got.Comments != 0 {
		t.Errorf("counters = (%d, %d), want zeroed", got.Upvotes, got.Comments)
	}
	if got.HasUpvoted {
		t.Error("author should not start with an upvote on own story")
	}
	if got.ReadTime != "1 min read" {
		t.Errorf("read_time = %q, want computed 1 min read", got.ReadTime)
	}
	if got.Author.Username != "alice" {
		t.Errorf("author = %q, want alice", got.Author.Username)
	}
	if list.Pagination.Total != 1 || list.Pagination.Page != 1 {
		t.Errorf("pagination = %+v", list.Pagination)
	}
}

func TestCreateStoryValidation(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	caller := user.ID
	r := newTestRouter(db, &caller)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing title", gin.H{"content": "x", "category": "victory"}},
		{"missing content", gin.H{"title": "t", "category": "victory"}},
		{"unknown category", gin.H{"title": "t", "content": "x", "category": "rant"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := perform(t, r, http.MethodPost, "/stories", tc.body)
			wantStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestCreateStoryRequiresProvisionedUser(t *testing.T) {
	db := newTestDB(t)
	caller := uint(42)
	r := newTestRouter(db, &caller)

	w := perform(t, r, http.MethodPost, "/stories", gin.H{
		"title":    "ghost",
		"content":  "x",
		"category": models.CategoryStruggle,
	})
	wantStatus(t, w, http.StatusNotFound)
	if msg := errorMessage(t, w); msg != "user profile not found" {
		t.Errorf("message = %q", msg)
	}
}

func TestUpvoteToggle(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	caller := alice.ID
	r := newTestRouter(db, &caller)

	storyID := createStory(t, r, "story", models.CategoryVictory)

	upvote := func(want bool) {
		t.Helper()
		w := perform(t, r, http.MethodPost, fmt.Sprintf("/stories/%d/upvote", storyID), nil)
		wantStatus(t, w, http.StatusOK)
		var resp struct {
			HasUpvoted bool `json:"has_upvoted"`
		}
		decodeData(t, w, &resp)
		if resp.HasUpvoted != want {
			t.Fatalf("has_upvoted = %v, want %v", resp.HasUpvoted, want)
		}
	}
	count := func() int {
		t.Helper()
		var story models.Story
		if err := db.First(&story, storyID).Error; err != nil {
			t.Fatalf("load story: %v", err)
		}
		return story.Upvotes
	}

	caller = bob.ID
	upvote(true)
	if got := count(); got != 1 {
		t.Fatalf("upvotes after first toggle = %d, want 1", got)
	}

	// Toggling again removes the vote; a third puts it back.
	upvote(false)
	if got := count(); got != 0 {
		t.Fatalf("upvotes after second toggle = %d, want 0", got)
	}
	upvote(true)
	if got := count(); got != 1 {
		t.Fatalf("upvotes after third toggle = %d, want 1", got)
	}

	// Annotation reflects the caller, not global state.
	w := perform(t, r, http.MethodGet, "/stories", nil)
	wantStatus(t, w, http.StatusOK)
	var list storyListResp
	decodeData(t, w, &list)
	if len(list.Items) != 1 || !list.Items[0].HasUpvoted {
		t.Errorf("bob's view = %+v, want has_upvoted true", list.Items)
	}

	caller = alice.ID
	w = perform(t, r, http.MethodGet, "/stories", nil)
	wantStatus(t, w, http.StatusOK)
	decodeData(t, w, &list)
	if len(list.Items) != 1 || list.Items[0].HasUpvoted {
		t.Errorf("alice's view = %+v, want has_upvoted false", list.Items)
	}
}

func TestUpvoteUnknownStory(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	caller := user.ID
	r := newTestRouter(db, &caller)

	w := perform(t, r, http.MethodPost, "/stories/999/upvote", nil)
	wantStatus(t, w, http.StatusNotFound)
}

func TestListStoriesFilters(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	caller := alice.ID
	r := newTestRouter(db, &caller)

	oldID := createStory(t, r, "old popular", models.CategoryVictory)
	midID := createStory(t, r, "middle", models.CategoryStruggle)
	newID := createStory(t, r, "fresh", models.CategoryVictory)

	// Age the first story out of the trending window and give it the most
	// upvotes overall.
	tenDaysAgo := time.Now().AddDate(0, 0, -10)
	if err := db.Model(&models.Story{}).Where("id = ?", oldID).
		UpdateColumn("created_at", tenDaysAgo).Error; err != nil {
		t.Fatalf("backdate story: %v", err)
	}
	for _, voter := range []uint{alice.ID, bob.ID} {
		if err := db.Create(&models.Upvote{UserID: voter, StoryID: oldID}).Error; err != nil {
			t.Fatalf("seed upvote: %v", err)
		}
	}
	if err := db.Model(&models.Story{}).Where("id = ?", oldID).
		UpdateColumn("upvotes", 2).Error; err != nil {
		t.Fatalf("seed counter: %v", err)
	}
	caller = bob.ID
	w := perform(t, r, http.MethodPost, fmt.Sprintf("/stories/%d/upvote", midID), nil)
	wantStatus(t, w, http.StatusOK)
	caller = alice.ID

	ids := func(filter string) []uint {
		t.Helper()
		path := "/stories"
		if filter != "" {
			path += "?filter=" + filter
		}
		w := perform(t, r, http.MethodGet, path, nil)
		wantStatus(t, w, http.StatusOK)
		var list storyListResp
		decodeData(t, w, &list)
		out := make([]uint, 0, len(list.Items))
		for _, item := range list.Items {
			out = append(out, item.ID)
		}
		return out
	}

	if got := ids("recent"); len(got) != 3 || got[0] != newID || got[2] != oldID {
		t.Errorf("recent order = %v, want [%d %d %d]", got, newID, midID, oldID)
	}
	if got := ids("top"); len(got) != 3 || got[0] != oldID || got[1] != midID {
		t.Errorf("top order = %v, want old popular first", got)
	}
	// Trending excludes the backdated story entirely.
	if got := ids("trending"); len(got) != 2 || got[0] != midID || got[1] != newID {
		t.Errorf("trending order = %v, want [%d %d]", got, midID, newID)
	}

	w = perform(t, r, http.MethodGet, "/stories?filter=controversial", nil)
	wantStatus(t, w, http.StatusBadRequest)
}

func TestListStoriesPagination(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	caller := user.ID
	r := newTestRouter(db, &caller)

	for i := 0; i < 5; i++ {
		createStory(t, r, fmt.Sprintf("entry %d", i), models.CategoryVictory)
	}

	w := perform(t, r, http.MethodGet, "/stories?page=2&page_size=2", nil)
	wantStatus(t, w, http.StatusOK)
	var list storyListResp
	decodeData(t, w, &list)
	if len(list.Items) != 2 {
		t.Errorf("page 2 items = %d, want 2", len(list.Items))
	}
	if list.Pagination.Total != 5 || list.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want total 5 over 3 pages", list.Pagination)
	}
}
