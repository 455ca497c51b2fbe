package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvariantCheck struct {
	Name    string         `json:"name"`
	Status  string         `json:"status"`
	Count   int            `json:"count"`
	Sample  []string       `json:"sample,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type InvariantReport struct {
	Status    string           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	CheckedAt time.Time        `json:"checked_at"`
	Checks    []InvariantCheck `json:"checks"`
}

func (r InvariantReport) Passed() bool { return r.Status == "pass" }

const sampleLimit = 10

// ValidateCurriculum checks the stored prerequisite graph directly in SQL.
// It complements the in-memory graph validation done per request.
func ValidateCurriculum(ctx context.Context, db *gorm.DB) InvariantReport {
	report := InvariantReport{
		Status:    "skipped",
		CheckedAt: time.Now().UTC(),
	}
	if db == nil {
		report.Reason = "missing_db"
		return report
	}

	runs := []struct {
		name string
		fn   func(context.Context, *gorm.DB) (InvariantCheck, error)
	}{
		{"prereq_cycles", checkPrereqCycles},
		{"self_prerequisites", checkSelfPrerequisites},
		{"dangling_prerequisites", checkDanglingPrerequisites},
		{"exam_weight_range", checkExamWeightRange},
	}

	checks := make([]InvariantCheck, 0, len(runs))
	hasFailure := false
	for _, run := range runs {
		check, err := run.fn(ctx, db)
		if err != nil {
			checks = append(checks, invariantError(run.name, err))
			hasFailure = true
			continue
		}
		checks = append(checks, check)
		if check.Status != "pass" {
			hasFailure = true
		}
	}

	report.Checks = checks
	if hasFailure {
		report.Status = "fail"
		return report
	}
	report.Status = "pass"
	return report
}

func invariantError(name string, err error) InvariantCheck {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return InvariantCheck{
		Name:   name,
		Status: "error",
		Count:  0,
		Error:  msg,
	}
}

type edgeRow struct {
	ConceptID      uuid.UUID `gorm:"column:concept_id"`
	PrerequisiteID uuid.UUID `gorm:"column:prerequisite_id"`
}

// checkPrereqCycles peels zero in-degree nodes (Kahn); whatever remains sits on
// or behind a cycle.
func checkPrereqCycles(ctx context.Context, db *gorm.DB) (InvariantCheck, error) {
	check := InvariantCheck{Name: "prereq_cycles", Status: "pass", Count: 0}
	rows := []edgeRow{}
	err := db.WithContext(ctx).
		Table("concept_prerequisite AS e").
		Select("e.concept_id, e.prerequisite_id").
		Joins("JOIN concept c1 ON c1.id = e.concept_id").
		Joins("JOIN concept c2 ON c2.id = e.prerequisite_id").
		Where("c1.deleted_at IS NULL").
		Where("c2.deleted_at IS NULL").
		Find(&rows).Error
	if err != nil {
		return check, err
	}
	if len(rows) == 0 {
		return check, nil
	}

	adj := map[uuid.UUID][]uuid.UUID{}
	indeg := map[uuid.UUID]int{}
	for _, row := range rows {
		adj[row.PrerequisiteID] = append(adj[row.PrerequisiteID], row.ConceptID)
		if _, ok := indeg[row.PrerequisiteID]; !ok {
			indeg[row.PrerequisiteID] = 0
		}
		indeg[row.ConceptID] = indeg[row.ConceptID] + 1
	}
	queue := make([]uuid.UUID, 0, len(indeg))
	for n, deg := range indeg {
		if deg == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, to := range adj[n] {
			indeg[to]--
			if indeg[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	remaining := 0
	sample := []string{}
	for n, deg := range indeg {
		if deg > 0 {
			remaining++
			if len(sample) < sampleLimit {
				sample = append(sample, n.String())
			}
		}
	}
	if remaining > 0 {
		check.Status = "fail"
		check.Count = remaining
		check.Sample = sample
	}
	return check, nil
}

func checkSelfPrerequisites(ctx context.Context, db *gorm.DB) (InvariantCheck, error) {
	check := InvariantCheck{Name: "self_prerequisites", Status: "pass", Count: 0}
	ids := []uuid.UUID{}
	if err := db.WithContext(ctx).
		Table("concept_prerequisite").
		Where("concept_id = prerequisite_id").
		Limit(sampleLimit).
		Pluck("concept_id", &ids).Error; err != nil {
		return check, err
	}
	if len(ids) == 0 {
		return check, nil
	}
	check.Status = "fail"
	check.Count = len(ids)
	for _, id := range ids {
		check.Sample = append(check.Sample, id.String())
	}
	return check, nil
}

func checkDanglingPrerequisites(ctx context.Context, db *gorm.DB) (InvariantCheck, error) {
	check := InvariantCheck{Name: "dangling_prerequisites", Status: "pass", Count: 0}
	var total int64
	query := db.WithContext(ctx).
		Table("concept_prerequisite AS e").
		Joins("LEFT JOIN concept c1 ON c1.id = e.concept_id AND c1.deleted_at IS NULL").
		Joins("LEFT JOIN concept c2 ON c2.id = e.prerequisite_id AND c2.deleted_at IS NULL").
		Where("c1.id IS NULL OR c2.id IS NULL")
	if err := query.Count(&total).Error; err != nil {
		return check, err
	}
	if total == 0 {
		return check, nil
	}
	rows := []edgeRow{}
	if err := query.Select("e.concept_id, e.prerequisite_id").Limit(sampleLimit).Find(&rows).Error; err != nil {
		return check, err
	}
	sample := make([]string, 0, len(rows))
	for _, row := range rows {
		sample = append(sample, fmt.Sprintf("%s->%s", row.ConceptID.String(), row.PrerequisiteID.String()))
	}
	check.Status = "fail"
	check.Count = int(total)
	check.Sample = sample
	return check, nil
}

type weightRow struct {
	Key        string `gorm:"column:key"`
	ExamWeight int    `gorm:"column:exam_weight"`
}

func checkExamWeightRange(ctx context.Context, db *gorm.DB) (InvariantCheck, error) {
	check := InvariantCheck{Name: "exam_weight_range", Status: "pass", Count: 0}
	rows := []weightRow{}
	if err := db.WithContext(ctx).
		Table("concept").
		Select("key, exam_weight").
		Where("deleted_at IS NULL").
		Where("exam_weight < ? OR exam_weight > ?", 1, 10).
		Order("key ASC").
		Find(&rows).Error; err != nil {
		return check, err
	}
	if len(rows) == 0 {
		return check, nil
	}
	check.Status = "fail"
	check.Count = len(rows)
	for i, row := range rows {
		if i >= sampleLimit {
			break
		}
		check.Sample = append(check.Sample, fmt.Sprintf("%s:%d", row.Key, row.ExamWeight))
	}
	return check, nil
}
