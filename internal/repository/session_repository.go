package repository

import (
	"dentsim_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.Session, error) {
	var session model.Session
	err := r.DB.Where("id = ?", id).First(&session).Error
	return &session, err
}

func (r *SessionRepository) FindByIDWithCase(id string) (*model.Session, error) {
	var session model.Session
	err := r.DB.Preload("Case").Where("id = ?", id).First(&session).Error
	return &session, err
}

// FindCompletedByUser lists a learner's finished encounters, newest first.
func (r *SessionRepository) FindCompletedByUser(userID uint) ([]model.Session, error) {
	var sessions []model.Session
	err := r.DB.Preload("Case").
		Where("user_id = ? AND status = ?", userID, model.SessionCompleted).
		Order("ended_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Session{}).
		Where("user_id = ? AND status = ?", userID, model.SessionCompleted).
		Count(&count).Error
	return count, err
}

func (r *SessionRepository) CountCorrectByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Session{}).
		Where("user_id = ? AND status = ? AND verdict_correct = ?", userID, model.SessionCompleted, true).
		Count(&count).Error
	return count, err
}
