package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushq/projectdesk-api/internal/apperr"
	"github.com/campushq/projectdesk-api/internal/dto"
	"github.com/campushq/projectdesk-api/internal/models"
	"github.com/campushq/projectdesk-api/internal/observability"
	"github.com/campushq/projectdesk-api/internal/repository"
)

// LeaderboardService computes project leaderboards on demand. Rankings are
// derived from stored feedback, never persisted; a short redis cache absorbs
// repeated reads.
type LeaderboardService interface {
	Get(ctx context.Context, projectID uint) (dto.LeaderboardResponse, error)
	// Invalidate drops the cached ranking for a project. Called after
	// feedback writes; the next read recomputes.
	Invalidate(ctx context.Context, projectID uint)
}

type leaderboardService struct {
	projects    repository.ProjectRepository
	teams       repository.TeamRepository
	submissions repository.SubmissionRepository
	feedback    repository.FeedbackRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewLeaderboardService constructs a LeaderboardService instance. cache may
// be nil, in which case every read recomputes.
func NewLeaderboardService(projects repository.ProjectRepository, teams repository.TeamRepository, submissions repository.SubmissionRepository, feedback repository.FeedbackRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		projects:    projects,
		teams:       teams,
		submissions: submissions,
		feedback:    feedback,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger.With().Str("component", "leaderboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *leaderboardService) Get(ctx context.Context, projectID uint) (dto.LeaderboardResponse, error) {
	key := fmt.Sprintf("leaderboard:project:%d", projectID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var response dto.LeaderboardResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("leaderboard cache read failed")
		}
	}

	response, err := s.compute(ctx, projectID)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("leaderboard cache write failed")
			}
		}
	}

	return response, nil
}

func (s *leaderboardService) Invalidate(ctx context.Context, projectID uint) {
	if s.cache == nil {
		return
	}

	key := fmt.Sprintf("leaderboard:project:%d", projectID)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("project_id", projectID).Msg("leaderboard cache invalidation failed")
	}
}

func (s *leaderboardService) compute(ctx context.Context, projectID uint) (dto.LeaderboardResponse, error) {
	start := time.Now()
	defer func() {
		observability.LeaderboardComputation().Observe(time.Since(start).Seconds())
	}()

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaderboardResponse{}, fmt.Errorf("project %d: %w", projectID, apperr.ErrNotFound)
		}
		return dto.LeaderboardResponse{}, fmt.Errorf("get project: %w", err)
	}

	teams, err := s.teams.ListByProject(ctx, projectID)
	if err != nil {
		return dto.LeaderboardResponse{}, fmt.Errorf("list teams: %w", err)
	}

	entries := make([]dto.LeaderboardEntry, 0, len(teams))
	for _, team := range teams {
		entry, err := s.teamEntry(ctx, team)
		if err != nil {
			return dto.LeaderboardResponse{}, err
		}
		entries = append(entries, entry)
	}

	// Highest combined score first; earlier final submission breaks ties.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].FinalScore != entries[j].FinalScore {
			return entries[i].FinalScore > entries[j].FinalScore
		}
		return entries[i].SubmissionTime.Before(entries[j].SubmissionTime)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return dto.LeaderboardResponse{
		ProjectID:  projectID,
		TotalTeams: len(entries),
		Entries:    entries,
	}, nil
}

// teamEntry builds one leaderboard row. Every team is ranked; a team
// without a final-stage submission anchors its tie-break time at now,
// which sorts it after any team that has actually submitted.
func (s *leaderboardService) teamEntry(ctx context.Context, team models.Team) (dto.LeaderboardEntry, error) {
	finalTime, err := s.submissions.EarliestFinalSubmissionTime(ctx, team.ID)
	if err != nil {
		return dto.LeaderboardEntry{}, fmt.Errorf("final submission time: %w", err)
	}
	if finalTime == nil {
		anchor := s.now()
		finalTime = &anchor
	}

	scores, err := s.feedback.SupervisorScoresByTeam(ctx, team.ID)
	if err != nil {
		return dto.LeaderboardEntry{}, fmt.Errorf("supervisor scores: %w", err)
	}

	var supervisorAvg float64
	if len(scores) > 0 {
		var sum float64
		for _, score := range scores {
			sum += score
		}
		supervisorAvg = sum / float64(len(scores))
	}

	adminScore, err := s.feedback.LatestAdminScoreByTeam(ctx, team.ID)
	if err != nil {
		return dto.LeaderboardEntry{}, fmt.Errorf("admin score: %w", err)
	}

	var adminValue float64
	if adminScore != nil {
		adminValue = *adminScore
	}

	roster, err := s.teams.Members(ctx, team.ID)
	if err != nil {
		return dto.LeaderboardEntry{}, fmt.Errorf("load roster: %w", err)
	}

	names := make([]string, 0, len(roster))
	for _, member := range roster {
		names = append(names, member.Name)
	}

	return dto.LeaderboardEntry{
		TeamID:         team.ID,
		TeamName:       team.Name,
		Members:        names,
		SupervisorAvg:  supervisorAvg,
		AdminScore:     adminValue,
		FinalScore:     supervisorAvg + adminValue,
		SubmissionTime: *finalTime,
	}, nil
}
