package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConceptPrerequisite says ConceptID requires PrerequisiteID. Nothing in the
// schema stops a cycle; the graph is validated when loaded.
type ConceptPrerequisite struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConceptID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_concept_prerequisite,priority:1" json:"concept_id"`
	PrerequisiteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_concept_prerequisite,priority:2;index" json:"prerequisite_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ConceptPrerequisite) TableName() string { return "concept_prerequisite" }

func (p *ConceptPrerequisite) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
