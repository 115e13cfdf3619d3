package dto

import "time"

// LeaderboardEntry is one ranked row of a project leaderboard. Entries are
// derived on demand and never persisted.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	TeamID         uint      `json:"team_id"`
	TeamName       string    `json:"team_name"`
	Members        []string  `json:"members"`
	SupervisorAvg  float64   `json:"supervisor_avg"`
	AdminScore     float64   `json:"admin_score"`
	FinalScore     float64   `json:"final_score"`
	SubmissionTime time.Time `json:"submission_time"`
}

// LeaderboardResponse wraps the ranked entries for one project.
type LeaderboardResponse struct {
	ProjectID  uint               `json:"project_id"`
	TotalTeams int                `json:"total_teams"`
	Entries    []LeaderboardEntry `json:"entries"`
}
