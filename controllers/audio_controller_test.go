package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/harryyking/unhooked-sub000/models"
)

func TestListAudiosResolvesURLs(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	caller := user.ID
	r := newTestRouter(db, &caller)

	seed := []models.AudioResource{
		{Title: "Morning grounding", Speaker: "J. Rivera", Category: "meditation", DurationS: 600, StorageKey: "audio/morning-grounding.mp3"},
		{Title: "Urge surfing", Speaker: "J. Rivera", Category: "talk", DurationS: 900, StorageKey: ""},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed audio: %v", err)
		}
	}

	w := perform(t, r, http.MethodGet, "/audios", nil)
	wantStatus(t, w, http.StatusOK)
	var resp struct {
		Items []struct {
			Title           string  `json:"title"`
			Speaker         string  `json:"speaker"`
			Category        string  `json:"category"`
			DurationSeconds int     `json:"duration_seconds"`
			URL             *string `json:"url"`
		} `json:"items"`
	}
	decodeData(t, w, &resp)
	if len(resp.Items) != 2 {
		t.Fatalf("audios = %d, want 2", len(resp.Items))
	}

	first := resp.Items[0]
	if first.Title != "Morning grounding" || first.DurationSeconds != 600 {
		t.Errorf("first item = %+v", first)
	}
	if first.URL == nil {
		t.Fatal("resolvable storage key yielded null url")
	}
	if want := "https://cdn.example.com/assets/audio/morning-grounding.mp3"; *first.URL != want {
		t.Errorf("url = %q, want %q", *first.URL, want)
	}

	// A blank storage key cannot be resolved and must surface as null.
	if resp.Items[1].URL != nil {
		t.Errorf("unresolvable key yielded url %q, want null", *resp.Items[1].URL)
	}

	// The storage key itself never leaves the API.
	if body := w.Body.String(); strings.Contains(body, "storage_key") || strings.Contains(body, "StorageKey") {
		t.Error("response leaks storage keys")
	}
}
