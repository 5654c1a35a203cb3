package evaluation

import (
	"fmt"
	"time"

	"dema/internal/score"

	"github.com/google/uuid"
)

// Record is one scored alternative as kept in the history.
type Record struct {
	ID          string    `json:"id"`
	Project     string    `json:"project"`
	Alternative string    `json:"alternative"`
	Cost        float64   `json:"cost"`
	Score       float64   `json:"score"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRecord stamps a scoring result with a fresh id and the current time.
func NewRecord(project string, res score.Result) Record {
	return Record{
		ID:          uuid.NewString(),
		Project:     project,
		Alternative: res.Alternative,
		Cost:        res.Cost,
		Score:       res.Score,
		Label:       res.Label,
		CreatedAt:   time.Now().UTC(),
	}
}

// NotFoundError is returned for projects without any stored evaluation.
type NotFoundError struct {
	Project string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no evaluations for project %q", e.Project)
}
