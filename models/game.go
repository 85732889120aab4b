package models

import (
	"time"
)

// GameStatus represents the lifecycle of a real-world sporting event
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusHalftime   GameStatus = "halftime"
	GameStatusFinal      GameStatus = "final"
	GameStatusCanceled   GameStatus = "canceled"
)

// Game represents one real-world sporting event. Scores are kept in
// PeriodScore rows, present only once the period has officially ended; the
// reconciler treats games as read-only.
type Game struct {
	ID        string     `db:"id"`
	HomeTeam  string     `db:"home_team"`
	AwayTeam  string     `db:"away_team"`
	Status    GameStatus `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// PeriodScore is one period-ending score pair for a game
type PeriodScore struct {
	GameID    string    `db:"game_id"`
	Period    Period    `db:"period"`
	HomeScore int       `db:"home_score"`
	AwayScore int       `db:"away_score"`
	PostedAt  time.Time `db:"posted_at"`
}

// WinningValue derives this score pair's winning square value
func (s *PeriodScore) WinningValue() string {
	return WinningSquareValue(s.AwayScore, s.HomeScore)
}

// IsCanceled checks if the game was canceled
func (g *Game) IsCanceled() bool {
	return g.Status == GameStatusCanceled
}
