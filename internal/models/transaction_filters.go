package models

import (
	"time"
)

// TransactionFilters narrows a user's transaction list. Both date bounds are
// inclusive; either both are set or neither. CurrentMonth is resolved to a
// date range by the service before the query runs.
type TransactionFilters struct {
	Type         string
	Category     string
	StartDate    *time.Time
	EndDate      *time.Time
	CurrentMonth bool
	Offset       int
	Limit        int
}

// HasDateRange reports whether both bounds are present
func (f TransactionFilters) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}
