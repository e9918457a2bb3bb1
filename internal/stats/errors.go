package stats

import "fmt"

// InvalidRecordError describes a malformed StatRecord. One bad record never
// aborts an aggregation run; callers get the rejected list for reporting.
type InvalidRecordError struct {
	PlayerID string
	Week     int
	Reason   string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid stat record (player=%q week=%d): %s", e.PlayerID, e.Week, e.Reason)
}
