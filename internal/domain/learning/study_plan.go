package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanDateLayout is the ISO 8601 calendar date used on the wire.
const PlanDateLayout = "2006-01-02"

// StudyPlan is the persisted daily recommendation: one row per user per day.
type StudyPlan struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_study_plan_user_date,priority:1" json:"user_id"`
	PlanDate datatypes.Date `gorm:"column:plan_date;type:date;not null;uniqueIndex:idx_study_plan_user_date,priority:2" json:"plan_date"`

	RecommendedConcepts datatypes.JSON `gorm:"column:recommended_concepts;type:jsonb;not null" json:"recommended_concepts"` // []uuid
	Reasoning           string         `gorm:"column:reasoning;type:text;not null;default:''" json:"reasoning"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StudyPlan) TableName() string { return "study_plan" }

func (p *StudyPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ConceptIDs decodes RecommendedConcepts, preserving order.
func (p *StudyPlan) ConceptIDs() ([]uuid.UUID, error) {
	out := []uuid.UUID{}
	if p == nil || len(p.RecommendedConcepts) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(p.RecommendedConcepts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Date returns the plan's calendar date in UTC.
func (p *StudyPlan) Date() time.Time {
	if p == nil {
		return time.Time{}
	}
	y, m, d := time.Time(p.PlanDate).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TruncateToDate normalizes t to midnight UTC of its calendar day.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParsePlanDate parses an ISO 8601 calendar date.
func ParsePlanDate(raw string) (time.Time, error) {
	t, err := time.Parse(PlanDateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateToDate(t), nil
}
