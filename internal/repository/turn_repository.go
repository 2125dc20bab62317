package repository

import (
	"dentsim_backend/internal/model"

	"gorm.io/gorm"
)

type TurnRepository struct {
	DB *gorm.DB
}

func NewTurnRepository(db *gorm.DB) *TurnRepository {
	return &TurnRepository{DB: db}
}

// Append writes a turn with the next sequence number for its session. The
// read and insert run in one transaction; the unique (session_id, seq) index
// rejects the loser of a concurrent append rather than reordering it.
func (r *TurnRepository) Append(turn *model.Turn) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var maxSeq int
		err := tx.Model(&model.Turn{}).
			Where("session_id = ?", turn.SessionID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error
		if err != nil {
			return err
		}
		turn.Seq = maxSeq + 1
		return tx.Create(turn).Error
	})
}

func (r *TurnRepository) FindBySession(sessionID string) ([]model.Turn, error) {
	var turns []model.Turn
	err := r.DB.Where("session_id = ?", sessionID).Order("seq ASC").Find(&turns).Error
	return turns, err
}

// FindRecent returns the newest n turns of a session in chronological order.
func (r *TurnRepository) FindRecent(sessionID string, n int) ([]model.Turn, error) {
	var turns []model.Turn
	err := r.DB.Where("session_id = ?", sessionID).
		Order("seq DESC").
		Limit(n).
		Find(&turns).Error
	if err != nil {
		return nil, err
	}
	// reverse back to chronological
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
