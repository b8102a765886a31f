package domain

import "time"

// Iteration is a bounded epoch of the project. At most one iteration is
// active at any time; nodes belong permanently to the iteration that was
// active when they were created.
type Iteration struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	IsActive    bool       `json:"is_active"`

	// NodeCount is populated by list queries.
	NodeCount int `json:"node_count"`
}
