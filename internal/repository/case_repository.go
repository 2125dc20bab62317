package repository

import (
	"dentsim_backend/internal/model"

	"gorm.io/gorm"
)

type CaseRepository struct {
	DB *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{DB: db}
}

func (r *CaseRepository) Create(c *model.Case) error {
	return r.DB.Create(c).Error
}

func (r *CaseRepository) FindByID(id uint) (*model.Case, error) {
	var c model.Case
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *CaseRepository) FindAll() ([]model.Case, error) {
	var cases []model.Case
	err := r.DB.Order("id ASC").Find(&cases).Error
	return cases, err
}

func (r *CaseRepository) Count(difficulty model.CaseDifficulty) (int64, error) {
	var count int64
	q := r.DB.Model(&model.Case{})
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	err := q.Count(&count).Error
	return count, err
}

// FindNth returns the case at the given offset in a stable ordering. The
// catalog service combines this with Count for uniform random selection.
func (r *CaseRepository) FindNth(difficulty model.CaseDifficulty, offset int) (*model.Case, error) {
	var c model.Case
	q := r.DB.Order("id ASC")
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	err := q.Offset(offset).First(&c).Error
	return &c, err
}
