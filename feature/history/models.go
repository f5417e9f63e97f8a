package history

import (
	"time"

	"csv-reconciler/core/reconcile"
)

// Run outcomes stored in the history table.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Run is the persisted summary of a finished reconciliation.
type Run struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Fingerprint string    `gorm:"column:fingerprint;size:64;index" json:"fingerprint"`
	FirstPath   string    `gorm:"column:first_path;size:1024" json:"first_path"`
	SecondPath  string    `gorm:"column:second_path;size:1024" json:"second_path"`
	Outcome     string    `gorm:"column:outcome;size:16" json:"outcome"`
	Error       string    `gorm:"column:error;size:1024" json:"error,omitempty"`
	Strategy    string    `gorm:"column:strategy;size:16" json:"strategy,omitempty"`
	KeyColumn   int       `gorm:"column:key_column" json:"key_column"`
	Added       int       `gorm:"column:added" json:"added"`
	Removed     int       `gorm:"column:removed" json:"removed"`
	Unchanged   int       `gorm:"column:unchanged" json:"unchanged"`
	ElapsedMS   int64     `gorm:"column:elapsed_ms" json:"elapsed_ms"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName overrides the table name.
func (Run) TableName() string {
	return "reconcile_runs"
}

// NewRun summarizes a finished reconciliation of firstPath and secondPath.
func NewRun(firstPath, secondPath string, result *reconcile.CombinedResult, err error, elapsed time.Duration) Run {
	run := Run{
		FirstPath:  firstPath,
		SecondPath: secondPath,
		Outcome:    OutcomeSuccess,
		KeyColumn:  reconcile.NoKeyColumn,
		ElapsedMS:  elapsed.Milliseconds(),
	}

	if err != nil {
		run.Outcome = OutcomeFailed
		run.Error = err.Error()
		return run
	}
	if result == nil {
		return run
	}

	run.Fingerprint = result.FormatFingerprint
	run.Strategy = string(result.Strategy)
	run.KeyColumn = result.KeyColumn
	run.Added = result.AddedCount
	run.Removed = result.RemovedCount
	run.Unchanged = result.UnchangedCount()
	return run
}
