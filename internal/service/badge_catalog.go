package service

import (
	"time"

	"dentsim_backend/internal/model"
)

// BadgeDefinition describes a badge kind shown to learners. Only Speedster is
// currently awarded by the progression engine; the rest appear locked.
type BadgeDefinition struct {
	Kind        model.BadgeKind `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Requirement string          `json:"requirement"`
	XPReward    int             `json:"xpReward"`
}

var badgeCatalog = []BadgeDefinition{
	{
		Kind:        model.BadgeSpeedster,
		Name:        "Speedster",
		Description: "Submit a correct diagnosis in under two minutes",
		Requirement: "Correct diagnosis < 2 min",
		XPReward:    xpSpeedsterBonus,
	},
	{
		Kind:        "first_steps",
		Name:        "First Steps",
		Description: "Complete your first diagnosis case",
		Requirement: "Complete 1 case",
		XPReward:    50,
	},
	{
		Kind:        "week_warrior",
		Name:        "Week Warrior",
		Description: "Maintain a 7-day streak",
		Requirement: "7-day streak",
		XPReward:    150,
	},
	{
		Kind:        "perfect_ten",
		Name:        "Perfect Ten",
		Description: "Get 10 diagnoses correct in a row",
		Requirement: "10 correct in a row",
		XPReward:    300,
	},
	{
		Kind:        "master_diagnostician",
		Name:        "Master Diagnostician",
		Description: "Complete 100 diagnosis cases",
		Requirement: "Complete 100 cases",
		XPReward:    2000,
	},
}

type BadgeStatus struct {
	BadgeDefinition
	Earned    bool       `json:"earned"`
	AwardedAt *time.Time `json:"awardedAt,omitempty"`
}

// Badges returns the full catalog annotated with the learner's awards.
func (s *ProgressionService) Badges(userID uint) ([]BadgeStatus, error) {
	awards, err := s.BadgeRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	awarded := make(map[model.BadgeKind]time.Time, len(awards))
	for _, a := range awards {
		awarded[a.Kind] = a.AwardedAt
	}

	statuses := make([]BadgeStatus, len(badgeCatalog))
	for i, def := range badgeCatalog {
		statuses[i] = BadgeStatus{BadgeDefinition: def}
		if at, ok := awarded[def.Kind]; ok {
			statuses[i].Earned = true
			t := at
			statuses[i].AwardedAt = &t
		}
	}
	return statuses, nil
}
