package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dentsim_backend/internal/model"
	"dentsim_backend/internal/repository"
	"dentsim_backend/internal/util"
	"dentsim_backend/pkg/logger"
	"dentsim_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	xpCorrect        = 100
	xpIncorrect      = 20
	xpSpeedsterBonus = 50
	speedsterWindow  = 120 * time.Second

	leaderboardSize     = 50
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 30 * time.Second
)

// ProgressionService settles submitted diagnoses and owns all mutation of a
// learner's progression state (xp, streak, badges).
type ProgressionService struct {
	DB          *gorm.DB
	UserRepo    *repository.UserRepository
	SessionRepo *repository.SessionRepository
	BadgeRepo   *repository.BadgeRepository
	Redis       *redis.Client // optional leaderboard cache
}

func NewProgressionService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	badgeRepo *repository.BadgeRepository,
	rdb *redis.Client,
) *ProgressionService {
	return &ProgressionService{
		DB:          db,
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
		BadgeRepo:   badgeRepo,
		Redis:       rdb,
	}
}

type ProgressionResult struct {
	Correct          bool     `json:"correct"`
	CorrectDiagnosis string   `json:"correctDiagnosis"`
	XPGained         int      `json:"xpGained"`
	BadgesUnlocked   []string `json:"badgesUnlocked"`
	Streak           int      `json:"streak"`
	Rank             int      `json:"rank"`
}

// Settle scores the submission and applies the whole settlement in one
// transaction: session completion, badge award, streak transition and XP
// credit commit together or not at all. The guarded status update is the
// first-wins gate, so a concurrent second settle fails with ErrAlreadySettled
// instead of re-crediting XP.
func (s *ProgressionService) Settle(ctx context.Context, userID uint, sessionID, submission string) (*ProgressionResult, error) {
	now := time.Now()
	var result *ProgressionResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session model.Session
		if err := tx.Preload("Case").Where("id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrSessionNotFound
			}
			return err
		}
		if session.UserID != userID {
			return util.ErrSessionNotFound
		}
		if session.Status == model.SessionCompleted {
			return util.ErrAlreadySettled
		}

		correct := EvaluateDiagnosis(session.Case.Name, submission)
		elapsed := now.Sub(session.StartedAt)

		res := tx.Model(&model.Session{}).
			Where("id = ? AND status = ?", session.ID, model.SessionActive).
			Updates(map[string]interface{}{
				"status":          model.SessionCompleted,
				"verdict_correct": correct,
				"ended_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrAlreadySettled
		}

		var user model.User
		userQuery := tx
		if tx.Dialector.Name() == "mysql" {
			userQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := userQuery.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrUserNotFound
			}
			return err
		}

		gained := xpIncorrect
		if correct {
			gained = xpCorrect
		}

		var unlocked []string
		if correct && elapsed < speedsterWindow {
			awarded, err := s.BadgeRepo.AwardOnce(tx, userID, model.BadgeSpeedster)
			if err != nil {
				return err
			}
			if awarded {
				gained += xpSpeedsterBonus
				unlocked = append(unlocked, string(model.BadgeSpeedster))
			}
		}

		streak := nextStreak(user.LastActiveDate, user.Streak, now)
		today := dayOf(now)

		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"xp":               gorm.Expr("xp + ?", gained),
				"streak":           streak,
				"last_active_date": today,
			}).Error; err != nil {
			return err
		}

		var above int64
		if err := tx.Model(&model.User{}).Where("xp > ?", user.XP+gained).Count(&above).Error; err != nil {
			return err
		}

		result = &ProgressionResult{
			Correct:          correct,
			CorrectDiagnosis: session.Case.Name,
			XPGained:         gained,
			BadgesUnlocked:   unlocked,
			Streak:           streak,
			Rank:             int(above) + 1,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	verdict := "incorrect"
	if result.Correct {
		verdict = "correct"
	}
	monitoring.SettlementCounter.WithLabelValues(verdict).Inc()

	s.invalidateLeaderboard(ctx)
	return result, nil
}

// nextStreak implements the calendar-day transitions: unchanged when already
// settled today, +1 when the last activity was yesterday, reset to 1 on a gap
// of two or more days or on first-ever activity.
func nextStreak(lastActive *time.Time, current int, now time.Time) int {
	if lastActive == nil {
		return 1
	}
	today := dayOf(now)
	last := dayOf(*lastActive)

	switch {
	case last.Equal(today):
		return current
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type LeaderboardEntry struct {
	Handle string `json:"handle"`
	XP     int    `json:"xp"`
	Streak int    `json:"streak"`
	Rank   int    `json:"rank"`
	Level  int    `json:"level"`
}

// Leaderboard returns the top learners ordered by XP descending, ties broken
// by earlier registration. Results are cached briefly in Redis and
// invalidated on settlement.
func (s *ProgressionService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal(cached, &entries) == nil {
				return entries, nil
			}
		}
	}

	users, err := s.UserRepo.FindTopByXP(leaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Handle: u.Name,
			XP:     u.XP,
			Streak: u.Streak,
			Rank:   i + 1,
			Level:  levelForXP(u.XP),
		}
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}
	return entries, nil
}

func (s *ProgressionService) invalidateLeaderboard(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

func levelForXP(xp int) int {
	return xp/1000 + 1
}

type Profile struct {
	Handle          string        `json:"handle"`
	XP              int           `json:"xp"`
	Level           int           `json:"level"`
	CasesCompleted  int64         `json:"casesCompleted"`
	AccuracyPercent int           `json:"accuracyPercent"`
	Streak          int           `json:"streak"`
	LastActiveDate  *time.Time    `json:"lastActiveDate"`
	EarnedBadges    []BadgeStatus `json:"earnedBadges"`
	Rank            int           `json:"rank"`
}

func (s *ProgressionService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	completed, err := s.SessionRepo.CountCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	correct, err := s.SessionRepo.CountCorrectByUser(userID)
	if err != nil {
		return nil, err
	}

	accuracy := 0
	if completed > 0 {
		accuracy = int(correct * 100 / completed)
	}

	above, err := s.UserRepo.CountWithMoreXP(user.XP)
	if err != nil {
		return nil, err
	}

	badges, err := s.Badges(userID)
	if err != nil {
		return nil, err
	}
	earned := make([]BadgeStatus, 0, len(badges))
	for _, b := range badges {
		if b.Earned {
			earned = append(earned, b)
		}
	}

	return &Profile{
		Handle:          user.Name,
		XP:              user.XP,
		Level:           levelForXP(user.XP),
		CasesCompleted:  completed,
		AccuracyPercent: accuracy,
		Streak:          user.Streak,
		LastActiveDate:  user.LastActiveDate,
		EarnedBadges:    earned,
		Rank:            int(above) + 1,
	}, nil
}
