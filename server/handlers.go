package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"squarepicks/metrics"
	"squarepicks/models"
	"squarepicks/service"
)

type reconcileRequest struct {
	GameID  string `json:"game_id" binding:"required"`
	BoardID string `json:"board_id" binding:"required"`
	Period  string `json:"period" binding:"required"`
}

type reconcileResponse struct {
	BoardID         string `json:"board_id"`
	Period          string `json:"period"`
	WinningValue    string `json:"winning_value"`
	WinningIndex    *int   `json:"winning_index"`
	WinnersPaid     int    `json:"winners_paid"`
	PerWinnerCents  int64  `json:"per_winner_cents"`
	AlreadyAssigned bool   `json:"already_assigned"`
}

// reconcile triggers reconciliation for one (game, board, period) triple
func (s *Server) reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	period, err := models.ParsePeriod(req.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.reconciler.ReconcilePeriod(c.Request.Context(), req.GameID, req.BoardID, period)
	if err != nil {
		metrics.ReconciliationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	metrics.ObserveResult(result.WinnersPaid, result.PerWinnerCents, result.AlreadyAssigned)
	c.JSON(http.StatusOK, reconcileResponse{
		BoardID:         result.BoardID,
		Period:          string(result.Period),
		WinningValue:    result.WinningValue,
		WinningIndex:    result.WinningIndex,
		WinnersPaid:     result.WinnersPaid,
		PerWinnerCents:  result.PerWinnerCents,
		AlreadyAssigned: result.AlreadyAssigned,
	})
}

type winnerSummaryResponse struct {
	Period       string `json:"period"`
	WinningValue string `json:"winning_value"`
	WinningIndex *int   `json:"winning_index"`
	WinnerCount  int    `json:"winner_count"`
	AssignedAt   string `json:"assigned_at"`
}

// boardWinners returns the resolved period summaries for a board
func (s *Server) boardWinners(c *gin.Context) {
	boardID := c.Param("id")

	summaries, err := s.boards.GetWinnerSummaries(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]winnerSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, winnerSummaryResponse{
			Period:       string(summary.Period),
			WinningValue: summary.WinningValue,
			WinningIndex: summary.WinningIndex,
			WinnerCount:  summary.WinnerCount,
			AssignedAt:   summary.AssignedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"board_id": boardID, "winners": out})
}

type ledgerEntryResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	BoardID     string `json:"board_id,omitempty"`
	Period      string `json:"period,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// userBalance returns a user's current balance in cents
func (s *Server) userBalance(c *gin.Context) {
	userID := c.Param("id")

	balance, err := s.users.GetBalance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "balance_cents": balance})
}

// userLedger returns a user's most recent ledger entries
func (s *Server) userLedger(c *gin.Context) {
	userID := c.Param("id")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	entries, err := s.users.GetLedger(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	out := make([]ledgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := ledgerEntryResponse{
			ID:          entry.ID,
			Type:        string(entry.EntryType),
			AmountCents: entry.AmountCents,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt.UTC().Format(time.RFC3339),
		}
		if entry.BoardID != nil {
			resp.BoardID = *entry.BoardID
		}
		if entry.Period != nil {
			resp.Period = string(*entry.Period)
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "entries": out})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrBoardNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrScoresNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
