package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"dentsim_backend/internal/model"
	"dentsim_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type progressionFixture struct {
	db   *gorm.DB
	svc  *ProgressionService
	user *model.User
	c    *model.Case
}

func newProgressionFixture(t *testing.T) *progressionFixture {
	t.Helper()
	db := newTestDB(t)
	userRepo, _, sessionRepo, _, badgeRepo := newTestRepos(db)

	user := createTestUser(t, db, "anca", 0)
	c := createTestCase(t, db, "Irreversible Pulpitis", model.DifficultyMedium)

	return &progressionFixture{
		db:   db,
		svc:  NewProgressionService(db, userRepo, sessionRepo, badgeRepo, nil),
		user: user,
		c:    c,
	}
}

// startSession opens an Active session; startedAgo controls the elapsed time
// observed at settlement (the Speedster window is two minutes).
func (f *progressionFixture) startSession(t *testing.T, startedAgo time.Duration) *model.Session {
	t.Helper()
	return createActiveSession(t, f.db, f.user.ID, f.c.ID, time.Now().Add(-startedAgo))
}

func (f *progressionFixture) reloadUser(t *testing.T) *model.User {
	t.Helper()
	user, err := f.svc.UserRepo.FindByID(f.user.ID)
	require.NoError(t, err)
	return user
}

func (f *progressionFixture) setLastActive(t *testing.T, daysAgo int) {
	t.Helper()
	day := dayOf(time.Now().AddDate(0, 0, -daysAgo))
	require.NoError(t, f.db.Model(&model.User{}).
		Where("id = ?", f.user.ID).
		Update("last_active_date", day).Error)
}

func TestSettleCorrectSlowSession(t *testing.T) {
	f := newProgressionFixture(t)
	session := f.startSession(t, 5*time.Minute)

	result, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, "looks like irreversible pulpitis")
	require.NoError(t, err)

	assert.True(t, result.Correct)
	assert.Equal(t, 100, result.XPGained)
	assert.Empty(t, result.BadgesUnlocked)
	assert.Equal(t, "Irreversible Pulpitis", result.CorrectDiagnosis)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 1, result.Rank)

	user := f.reloadUser(t)
	assert.Equal(t, 100, user.XP)
	require.NotNil(t, user.LastActiveDate)

	reloaded, err := f.svc.SessionRepo.FindByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, reloaded.Status)
	require.NotNil(t, reloaded.VerdictCorrect)
	assert.True(t, *reloaded.VerdictCorrect)
	assert.NotNil(t, reloaded.EndedAt)
}

func TestSettleIncorrect(t *testing.T) {
	f := newProgressionFixture(t)
	session := f.startSession(t, time.Second)

	result, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, "chronic gingivitis")
	require.NoError(t, err)

	assert.False(t, result.Correct)
	assert.Equal(t, 20, result.XPGained)
	// a fast but wrong answer earns no Speedster
	assert.Empty(t, result.BadgesUnlocked)

	reloaded, err := f.svc.SessionRepo.FindByID(session.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.VerdictCorrect)
	assert.False(t, *reloaded.VerdictCorrect)
}

func TestSettleTwiceCreditsOnce(t *testing.T) {
	f := newProgressionFixture(t)
	session := f.startSession(t, 5*time.Minute)

	_, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, "irreversible pulpitis")
	require.NoError(t, err)

	_, err = f.svc.Settle(context.Background(), f.user.ID, session.ID, "irreversible pulpitis")
	assert.True(t, errors.Is(err, util.ErrAlreadySettled))

	user := f.reloadUser(t)
	assert.Equal(t, 100, user.XP)
	assert.Equal(t, 1, user.Streak)
}

func TestSettleConcurrentCreditsOnce(t *testing.T) {
	f := newProgressionFixture(t)
	session := f.startSession(t, 30*time.Second)

	const attempts = 4
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, "irreversible pulpitis")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	settled, rejected := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			settled++
		case errors.Is(err, util.ErrAlreadySettled):
			rejected++
		default:
			t.Fatalf("unexpected settle error: %v", err)
		}
	}
	assert.Equal(t, 1, settled)
	assert.Equal(t, attempts-1, rejected)

	// exactly one credit landed: 100 correct + 50 Speedster, one badge row
	user := f.reloadUser(t)
	assert.Equal(t, 150, user.XP)

	var awards int64
	require.NoError(t, f.db.Model(&model.BadgeAward{}).
		Where("user_id = ?", f.user.ID).Count(&awards).Error)
	assert.Equal(t, int64(1), awards)
}

func TestSettleUnknownSession(t *testing.T) {
	f := newProgressionFixture(t)

	_, err := f.svc.Settle(context.Background(), f.user.ID, "no-such-session", "anything")
	assert.True(t, errors.Is(err, util.ErrSessionNotFound))
}

func TestSettleForeignSession(t *testing.T) {
	f := newProgressionFixture(t)
	other := createTestUser(t, f.db, "student", 0)
	session := createActiveSession(t, f.db, other.ID, f.c.ID, time.Now())

	_, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, "anything")
	assert.True(t, errors.Is(err, util.ErrSessionNotFound))
}

func TestSpeedsterAwardedOnceWithBonus(t *testing.T) {
	f := newProgressionFixture(t)

	first := f.startSession(t, 30*time.Second)
	result, err := f.svc.Settle(context.Background(), f.user.ID, first.ID, "irreversible pulpitis")
	require.NoError(t, err)
	assert.Equal(t, []string{"speedster"}, result.BadgesUnlocked)
	assert.Equal(t, 150, result.XPGained)

	// a second qualifying settlement does not re-award
	second := f.startSession(t, 10*time.Second)
	result, err = f.svc.Settle(context.Background(), f.user.ID, second.ID, "irreversible pulpitis")
	require.NoError(t, err)
	assert.Empty(t, result.BadgesUnlocked)
	assert.Equal(t, 100, result.XPGained)

	var awards int64
	require.NoError(t, f.db.Model(&model.BadgeAward{}).
		Where("user_id = ?", f.user.ID).Count(&awards).Error)
	assert.Equal(t, int64(1), awards)
}

func TestSpeedsterRequiresFastSession(t *testing.T) {
	f := newProgressionFixture(t)
	session := f.startSession(t, 3*time.Minute)

	result, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, "irreversible pulpitis")
	require.NoError(t, err)
	assert.Empty(t, result.BadgesUnlocked)
}

func TestStreakTransitions(t *testing.T) {
	f := newProgressionFixture(t)

	// first-ever activity starts the streak at 1
	s1 := f.startSession(t, 5*time.Minute)
	result, err := f.svc.Settle(context.Background(), f.user.ID, s1.ID, "wrong")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)

	// a second settlement the same day leaves the streak unchanged
	s2 := f.startSession(t, 5*time.Minute)
	result, err = f.svc.Settle(context.Background(), f.user.ID, s2.ID, "wrong")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)

	// yesterday's activity extends the streak
	f.setLastActive(t, 1)
	s3 := f.startSession(t, 5*time.Minute)
	result, err = f.svc.Settle(context.Background(), f.user.ID, s3.ID, "wrong")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Streak)

	// a gap of three days resets to 1
	f.setLastActive(t, 3)
	s4 := f.startSession(t, 5*time.Minute)
	result, err = f.svc.Settle(context.Background(), f.user.ID, s4.ID, "wrong")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Streak)
}

func TestNextStreakTable(t *testing.T) {
	now := time.Now()
	yesterday := dayOf(now.AddDate(0, 0, -1))
	today := dayOf(now)
	threeDaysAgo := dayOf(now.AddDate(0, 0, -3))

	tests := []struct {
		name       string
		lastActive *time.Time
		current    int
		want       int
	}{
		{"first ever", nil, 0, 1},
		{"already today", &today, 4, 4},
		{"yesterday", &yesterday, 4, 5},
		{"gap", &threeDaysAgo, 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStreak(tt.lastActive, tt.current, now))
		})
	}
}

func TestXPIsMonotonicAcrossSettlements(t *testing.T) {
	f := newProgressionFixture(t)

	prev := 0
	submissions := []string{"wrong", "irreversible pulpitis", "wrong", "irreversible pulpitis"}
	for i, submission := range submissions {
		session := f.startSession(t, 5*time.Minute)
		_, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, submission)
		require.NoError(t, err, "settlement %d", i)

		user := f.reloadUser(t)
		assert.GreaterOrEqual(t, user.XP, prev)
		prev = user.XP
	}
}

func TestRankCountsStrictlyGreaterXP(t *testing.T) {
	f := newProgressionFixture(t)
	for i, xp := range []int{1000, 900, 800} {
		createTestUser(t, f.db, fmt.Sprintf("senior%d", i), xp)
	}

	session := f.startSession(t, 5*time.Minute)
	result, err := f.svc.Settle(context.Background(), f.user.ID, session.ID, "wrong")
	require.NoError(t, err)

	// three learners sit above with strictly more XP
	assert.Equal(t, 4, result.Rank)

	profile, err := f.svc.GetProfile(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, profile.Rank)
}

func TestLeaderboardTop50SortedWithTieBreak(t *testing.T) {
	f := newProgressionFixture(t)
	for i := 0; i < 60; i++ {
		createTestUser(t, f.db, fmt.Sprintf("learner%02d", i), (i%20)*100)
	}

	entries, err := f.svc.Leaderboard(context.Background())
	require.NoError(t, err)

	assert.Len(t, entries, 50)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].XP, entries[i].XP)
		assert.Equal(t, i+1, entries[i].Rank)
	}
	assert.Equal(t, entries[0].XP/1000+1, entries[0].Level)
}

func TestProfileStats(t *testing.T) {
	f := newProgressionFixture(t)

	correct := f.startSession(t, 30*time.Second)
	_, err := f.svc.Settle(context.Background(), f.user.ID, correct.ID, "irreversible pulpitis")
	require.NoError(t, err)

	wrong := f.startSession(t, 30*time.Second)
	_, err = f.svc.Settle(context.Background(), f.user.ID, wrong.ID, "nope")
	require.NoError(t, err)

	profile, err := f.svc.GetProfile(f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, "anca", profile.Handle)
	assert.Equal(t, int64(2), profile.CasesCompleted)
	assert.Equal(t, 50, profile.AccuracyPercent)
	assert.Equal(t, 1, profile.Streak)
	// 100 + 50 speedster + 20
	assert.Equal(t, 170, profile.XP)
	require.Len(t, profile.EarnedBadges, 1)
	assert.Equal(t, model.BadgeSpeedster, profile.EarnedBadges[0].Kind)
	assert.NotNil(t, profile.EarnedBadges[0].AwardedAt)
}

func TestBadgeCatalogAnnotation(t *testing.T) {
	f := newProgressionFixture(t)

	badges, err := f.svc.Badges(f.user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, badges)
	for _, b := range badges {
		assert.False(t, b.Earned)
	}

	session := f.startSession(t, 10*time.Second)
	_, err = f.svc.Settle(context.Background(), f.user.ID, session.ID, "irreversible pulpitis")
	require.NoError(t, err)

	badges, err = f.svc.Badges(f.user.ID)
	require.NoError(t, err)

	earnedKinds := map[model.BadgeKind]bool{}
	for _, b := range badges {
		if b.Earned {
			earnedKinds[b.Kind] = true
		}
	}
	assert.Equal(t, map[model.BadgeKind]bool{model.BadgeSpeedster: true}, earnedKinds)
}
