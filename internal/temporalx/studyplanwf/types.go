package studyplanwf

const (
	WorkflowName     = "daily_study_plan"
	ActivityGenerate = "generate_study_plan"
)

// PlanRequest identifies one learner-day. PlanDate is YYYY-MM-DD.
type PlanRequest struct {
	UserID   string `json:"user_id"`
	PlanDate string `json:"plan_date"`
}

type PlanSummary struct {
	PlanID      string `json:"plan_id"`
	UserID      string `json:"user_id"`
	PlanDate    string `json:"plan_date"`
	Recommended int    `json:"recommended"`
	Faults      int    `json:"integrity_faults"`
}
