package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinExamWeight = 1
	MaxExamWeight = 10
)

// Concept is one syllabus node. Prerequisites live in concept_prerequisite.
type Concept struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Stable curriculum key, unique across the syllabus; seeding upserts by it.
	Key     string `gorm:"column:key;not null;uniqueIndex:idx_concept_key" json:"key"`
	Subject string `gorm:"column:subject;not null;index:idx_concept_subject_topic,priority:1" json:"subject"`
	Topic   string `gorm:"column:topic;not null;index:idx_concept_subject_topic,priority:2" json:"topic"`
	Name    string `gorm:"column:name;not null" json:"name"`

	// 1-10, revisable by curriculum authors.
	ExamWeight int `gorm:"column:exam_weight;not null;default:1" json:"exam_weight"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Concept) TableName() string { return "concept" }

func (c *Concept) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ValidExamWeight reports whether w is inside the authored range.
func ValidExamWeight(w int) bool {
	return w >= MinExamWeight && w <= MaxExamWeight
}
