package repository

import (
	"dentsim_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

// AwardOnce inserts a badge award, relying on the (user_id, kind) unique
// index instead of a check-then-insert. Returns true only when this call
// actually inserted the row, so concurrent attempts report at most one award.
func (r *BadgeRepository) AwardOnce(tx *gorm.DB, userID uint, kind model.BadgeKind) (bool, error) {
	award := model.BadgeAward{
		UserID:    userID,
		Kind:      kind,
		AwardedAt: time.Now(),
	}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(&award)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *BadgeRepository) FindByUserID(userID uint) ([]model.BadgeAward, error) {
	var awards []model.BadgeAward
	err := r.DB.Where("user_id = ?", userID).Order("awarded_at ASC").Find(&awards).Error
	return awards, err
}
