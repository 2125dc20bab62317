package model

type CaseDifficulty string

const (
	DifficultyEasy   CaseDifficulty = "easy"
	DifficultyMedium CaseDifficulty = "medium"
	DifficultyHard   CaseDifficulty = "hard"
)

// Case is a scripted diagnosable clinical scenario. Rows are immutable after
// seeding; Name is the true diagnosis the evaluator scores against.
type Case struct {
	BaseModel
	Name        string         `gorm:"size:150;uniqueIndex;not null" json:"name"`
	Difficulty  CaseDifficulty `gorm:"size:20;not null;index" json:"difficulty"`
	Script      string         `gorm:"type:text;not null" json:"-"` // behavioral profile, never exposed to callers
	OpeningLine string         `gorm:"type:text;not null" json:"-"`
}

func (Case) TableName() string {
	return "cases"
}
