package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinMasteryScore = 0.0
	MaxMasteryScore = 100.0
)

// MasteryRecord is a learner's proficiency estimate for one concept. It is
// created on the first graded attempt and only the grading path writes it.
type MasteryRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mastery_user_concept,priority:1" json:"user_id"`
	ConceptID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mastery_user_concept,priority:2;index" json:"concept_id"`

	MasteryScore float64   `gorm:"column:mastery_score;not null;default:0" json:"mastery_score"`
	Attempts     int       `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastUpdated  time.Time `gorm:"column:last_updated;not null" json:"last_updated"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (MasteryRecord) TableName() string { return "mastery_record" }

func (m *MasteryRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
