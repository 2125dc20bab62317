package service

import (
	"errors"
	"testing"

	"dentsim_backend/internal/model"
	"dentsim_backend/internal/repository"
	"dentsim_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickRandomEmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&model.Case{}).Error)

	svc := NewCatalogService(repository.NewCaseRepository(db))
	_, err := svc.PickRandom("")
	assert.True(t, errors.Is(err, util.ErrEmptyCatalog))
}

func TestPickRandomRespectsDifficulty(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCaseRepository(db))

	for i := 0; i < 10; i++ {
		picked, err := svc.PickRandom(model.DifficultyMedium)
		require.NoError(t, err)
		assert.Equal(t, model.DifficultyMedium, picked.Difficulty)
	}
}

func TestPickRandomFallsBackOnUnmatchedDifficulty(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Where("difficulty = ?", model.DifficultyHard).Delete(&model.Case{}).Error)

	svc := NewCatalogService(repository.NewCaseRepository(db))
	picked, err := svc.PickRandom(model.DifficultyHard)
	require.NoError(t, err)
	assert.NotEqual(t, model.DifficultyHard, picked.Difficulty)
}

func TestPickRandomIsUniformOverOffsets(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(repository.NewCaseRepository(db))

	// force each offset in turn and verify distinct cases come back
	seen := map[string]bool{}
	for offset := 0; offset < 3; offset++ {
		svc.intn = func(n int) int { return offset % n }
		picked, err := svc.PickRandom("")
		require.NoError(t, err)
		seen[picked.Name] = true
	}
	assert.Len(t, seen, 3)
}
