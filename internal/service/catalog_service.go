package service

import (
	"math/rand"

	"dentsim_backend/internal/model"
	"dentsim_backend/internal/repository"
	"dentsim_backend/internal/util"
)

type CatalogService struct {
	CaseRepo *repository.CaseRepository

	// intn is swappable for deterministic tests; defaults to rand.Intn.
	intn func(n int) int
}

func NewCatalogService(caseRepo *repository.CaseRepository) *CatalogService {
	return &CatalogService{
		CaseRepo: caseRepo,
		intn:     rand.Intn,
	}
}

// CaseSummary is the instructor-facing catalog view; scripts stay internal.
type CaseSummary struct {
	ID         uint                 `json:"id"`
	Name       string               `json:"name"`
	Difficulty model.CaseDifficulty `json:"difficulty"`
}

// List exposes the catalog without scripts or opening lines.
func (s *CatalogService) List() ([]CaseSummary, error) {
	cases, err := s.CaseRepo.FindAll()
	if err != nil {
		return nil, err
	}

	summaries := make([]CaseSummary, len(cases))
	for i, c := range cases {
		summaries[i] = CaseSummary{
			ID:         c.ID,
			Name:       c.Name,
			Difficulty: c.Difficulty,
		}
	}
	return summaries, nil
}

// PickRandom selects a case uniformly at random, optionally restricted to a
// difficulty. An unmatched difficulty falls back to the whole catalog rather
// than failing; only a truly empty catalog is an error. No repetition
// avoidance across sessions.
func (s *CatalogService) PickRandom(difficulty model.CaseDifficulty) (*model.Case, error) {
	count, err := s.CaseRepo.Count(difficulty)
	if err != nil {
		return nil, err
	}

	if count == 0 && difficulty != "" {
		difficulty = ""
		count, err = s.CaseRepo.Count(difficulty)
		if err != nil {
			return nil, err
		}
	}

	if count == 0 {
		return nil, util.ErrEmptyCatalog
	}

	return s.CaseRepo.FindNth(difficulty, s.intn(int(count)))
}
