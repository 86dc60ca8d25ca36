package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mwl313/yuuka-grow-sub000/internal/game"
	"github.com/mwl313/yuuka-grow-sub000/internal/store"
)

const maxPlayerNameLen = 32

var validCategories = map[string]bool{
	string(game.CategoryNormal):   true,
	string(game.CategoryBankrupt): true,
	string(game.CategoryStress):   true,
	string(game.CategorySpecial):  true,
}

// validateSubmission checks a submission request against the core's data
// contract. Returns an empty string when the request is acceptable.
func validateSubmission(req SubmissionRequest) string {
	player := strings.TrimSpace(req.Player)
	if player == "" {
		return "player name is required"
	}
	if len(player) > maxPlayerNameLen {
		return "player name is too long"
	}
	if !validCategories[req.EndingCategory] {
		return "unknown ending category: " + req.EndingCategory
	}
	if !game.IsKnownEndingID(req.EndingID) {
		return "unknown ending id: " + req.EndingID
	}
	if req.SurvivalDays < 1 || req.SurvivalDays > game.MaxDay {
		return "survival_days out of range"
	}
	if req.FinalStress < 0 || req.FinalStress > game.StressMax {
		return "final_stress out of range"
	}
	if math.IsNaN(req.FinalThighCm) || math.IsInf(req.FinalThighCm, 0) || req.FinalThighCm < game.ThighMinCm {
		return "final_thigh_cm out of range"
	}
	if req.FinalStage != game.Stage(req.FinalThighCm) {
		return "final_stage does not match final_thigh_cm"
	}
	return ""
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body")
		return
	}

	if msg := validateSubmission(req); msg != "" {
		s.writeError(w, r, http.StatusBadRequest, ErrTypeValidation, msg)
		return
	}

	sub := &store.Submission{
		Player:         strings.TrimSpace(req.Player),
		EndingCategory: req.EndingCategory,
		EndingID:       req.EndingID,
		SurvivalDays:   req.SurvivalDays,
		FinalCredits:   req.FinalCredits,
		FinalThighCm:   req.FinalThighCm,
		FinalStage:     req.FinalStage,
		FinalStress:    req.FinalStress,
	}

	if err := s.db.SaveSubmission(r.Context(), sub); err != nil {
		s.logger.Printf("failed to save submission: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to save submission")
		return
	}

	rank, err := s.db.Rank(r.Context(), sub.ID)
	if err != nil {
		s.logger.Printf("failed to rank submission %s: %v", sub.ID, err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to rank submission")
		return
	}

	s.writeJSON(w, http.StatusCreated, SubmissionResponse{
		Submission:     *sub,
		Rank:           rank,
		ServiceVersion: ServiceVersion,
	})
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := s.db.GetSubmission(r.Context(), id)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "submission not found")
		return
	}

	rank, err := s.db.Rank(r.Context(), id)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to rank submission")
		return
	}

	s.writeJSON(w, http.StatusOK, SubmissionResponse{
		Submission:     *sub,
		Rank:           rank,
		ServiceVersion: ServiceVersion,
	})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 25)
	offset := queryInt(r, "offset", 0)
	if limit < 1 || limit > 100 {
		limit = 25
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.db.Leaderboard(r.Context(), limit, offset)
	if err != nil {
		s.logger.Printf("failed to query leaderboard: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to query leaderboard")
		return
	}

	s.writeJSON(w, http.StatusOK, LeaderboardResponse{
		Entries:        entries,
		Limit:          limit,
		Offset:         offset,
		ServiceVersion: ServiceVersion,
	})
}

func (s *Server) handleEndingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.EndingStats(r.Context())
	if err != nil {
		s.logger.Printf("failed to query ending stats: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to query ending stats")
		return
	}

	s.writeJSON(w, http.StatusOK, EndingStatsResponse{
		Stats:          stats,
		KnownEndings:   len(game.EndingIDs()),
		ServiceVersion: ServiceVersion,
	})
}

func (s *Server) handleAdminListSubmissions(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 50)

	result, err := s.db.ListSubmissions(r.Context(), page, perPage)
	if err != nil {
		s.logger.Printf("failed to list submissions: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to list submissions")
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdminDeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.db.DeleteSubmission(r.Context(), id); err != nil {
		s.writeError(w, r, http.StatusNotFound, ErrTypeNotFound, "submission not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.Stats(r.Context())
	if err != nil {
		s.logger.Printf("failed to query stats: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, ErrTypeInternal, "failed to query stats")
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}
