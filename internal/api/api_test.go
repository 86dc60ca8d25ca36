package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mwl313/yuuka-grow-sub000/internal/game"
	"github.com/mwl313/yuuka-grow-sub000/internal/store"
)

const testAdminToken = "test-admin-token"

func newTestServer(t *testing.T, config Config) (*Server, http.Handler) {
	t.Helper()

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	srv := NewServer(db, config)
	return srv, srv.Routes()
}

func validRequest(player string) SubmissionRequest {
	thigh := 150.0
	return SubmissionRequest{
		Player:         player,
		EndingCategory: "normal",
		EndingID:       "normal_plain",
		SurvivalDays:   100,
		FinalCredits:   42000,
		FinalThighCm:   thigh,
		FinalStage:     game.Stage(thigh),
		FinalStress:    30,
	}
}

func postSubmission(t *testing.T, handler http.Handler, req SubmissionRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestSubmitAndFetch(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	w := postSubmission(t, handler, validRequest("alice"))
	if w.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, want 201: %s", w.Code, w.Body)
	}
	if got := w.Header().Get("X-Service-Version"); got != ServiceVersion {
		t.Errorf("X-Service-Version = %q, want %q", got, ServiceVersion)
	}

	created := decodeJSON[SubmissionResponse](t, w)
	if created.Submission.ID == "" {
		t.Fatal("created submission has no id")
	}
	if created.Rank != 1 {
		t.Errorf("first submission rank = %d, want 1", created.Rank)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/submissions/"+created.Submission.ID, nil)
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, r)
	if w2.Code != http.StatusOK {
		t.Fatalf("fetch status = %d, want 200: %s", w2.Code, w2.Body)
	}

	fetched := decodeJSON[SubmissionResponse](t, w2)
	if fetched.Submission.Player != "alice" || fetched.Submission.SurvivalDays != 100 {
		t.Errorf("fetched %+v, want the stored submission", fetched.Submission)
	}
}

func TestSubmitValidation(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	tests := []struct {
		name   string
		mutate func(*SubmissionRequest)
	}{
		{"empty player", func(r *SubmissionRequest) { r.Player = "   " }},
		{"player too long", func(r *SubmissionRequest) {
			r.Player = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" // 33 chars
		}},
		{"unknown category", func(r *SubmissionRequest) { r.EndingCategory = "glorious" }},
		{"unknown ending id", func(r *SubmissionRequest) { r.EndingID = "normal_invented" }},
		{"days too low", func(r *SubmissionRequest) { r.SurvivalDays = 0 }},
		{"days too high", func(r *SubmissionRequest) { r.SurvivalDays = 101 }},
		{"negative stress", func(r *SubmissionRequest) { r.FinalStress = -1 }},
		{"thigh below minimum", func(r *SubmissionRequest) { r.FinalThighCm = 0.5 }},
		{"stage mismatch", func(r *SubmissionRequest) { r.FinalStage = 99 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest("bob")
			tt.mutate(&req)

			w := postSubmission(t, handler, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", w.Code, w.Body)
			}
			apiErr := decodeJSON[APIError](t, w)
			if apiErr.Type != ErrTypeValidation {
				t.Errorf("error type = %q, want %q", apiErr.Type, ErrTypeValidation)
			}
		})
	}
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	r := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader([]byte("{broken")))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/submissions/nonexistent", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	apiErr := decodeJSON[APIError](t, w)
	if apiErr.Type != ErrTypeNotFound {
		t.Errorf("error type = %q, want %q", apiErr.Type, ErrTypeNotFound)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	for i := 0; i < 3; i++ {
		req := validRequest(fmt.Sprintf("player%d", i))
		req.SurvivalDays = 100 - i*10
		if w := postSubmission(t, handler, req); w.Code != http.StatusCreated {
			t.Fatalf("seed submit failed: %d %s", w.Code, w.Body)
		}
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard?limit=2", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}

	board := decodeJSON[LeaderboardResponse](t, w)
	if board.Limit != 2 || len(board.Entries) != 2 {
		t.Fatalf("got %d entries with limit %d, want 2", len(board.Entries), board.Limit)
	}
	if board.Entries[0].Player != "player0" || board.Entries[0].Rank != 1 {
		t.Errorf("top entry = %+v, want player0 at rank 1", board.Entries[0])
	}
	if board.Entries[1].Player != "player1" {
		t.Errorf("second entry = %s, want player1", board.Entries[1].Player)
	}
}

func TestEndingStatsEndpoint(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	req := validRequest("alice")
	if w := postSubmission(t, handler, req); w.Code != http.StatusCreated {
		t.Fatalf("seed submit failed: %d", w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/endings/stats", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	stats := decodeJSON[EndingStatsResponse](t, w)
	if len(stats.Stats) != 1 || stats.Stats[0].EndingID != "normal_plain" || stats.Stats[0].Count != 1 {
		t.Errorf("stats = %+v, want one normal_plain entry", stats.Stats)
	}
	if stats.KnownEndings != len(game.EndingIDs()) {
		t.Errorf("KnownEndings = %d, want %d", stats.KnownEndings, len(game.EndingIDs()))
	}
}

func TestAdminAuthDisabledWithoutToken(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	r.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when no admin token is configured", w.Code)
	}
}

func TestAdminAuthRejectsBadToken(t *testing.T) {
	_, handler := newTestServer(t, Config{AdminToken: testAdminToken})

	for _, auth := range []string{"", "Bearer wrong", "Basic " + testAdminToken} {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
		if auth != "" {
			r.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("auth %q: status = %d, want 401", auth, w.Code)
		}
	}
}

func TestAdminListAndDelete(t *testing.T) {
	_, handler := newTestServer(t, Config{AdminToken: testAdminToken})

	created := decodeJSON[SubmissionResponse](t, postSubmission(t, handler, validRequest("alice")))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions", nil)
	r.Header.Set("Authorization", "Bearer "+testAdminToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200: %s", w.Code, w.Body)
	}
	page := decodeJSON[store.SubmissionsPage](t, w)
	if page.TotalCount != 1 || len(page.Submissions) != 1 {
		t.Fatalf("page = %+v, want one submission", page)
	}

	r = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/submissions/"+created.Submission.ID, nil)
	r.Header.Set("Authorization", "Bearer "+testAdminToken)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200: %s", w.Code, w.Body)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/submissions/"+created.Submission.ID, nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("fetch after delete status = %d, want 404", w.Code)
	}
}

func TestAdminStats(t *testing.T) {
	_, handler := newTestServer(t, Config{AdminToken: testAdminToken})

	postSubmission(t, handler, validRequest("alice"))
	postSubmission(t, handler, validRequest("bob"))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	r.Header.Set("Authorization", "Bearer "+testAdminToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}

	stats := decodeJSON[store.Stats](t, w)
	if stats.TotalSubmissions != 2 || stats.DistinctPlayers != 2 {
		t.Errorf("stats = %+v, want 2 submissions from 2 players", stats)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, handler := newTestServer(t, Config{})

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200: %s", path, w.Code, w.Body)
		}
	}
}

func TestValidateSubmissionAcceptsAllKnownEndings(t *testing.T) {
	for _, id := range game.EndingIDs() {
		req := validRequest("alice")
		req.EndingID = id
		if msg := validateSubmission(req); msg != "" {
			t.Errorf("ending %s: unexpected rejection: %s", id, msg)
		}
	}
}
