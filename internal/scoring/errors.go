package scoring

import "fmt"

// UnknownPolicyError reports a policy id absent from the policy table.
// This is a configuration error: fatal to the request, not to the process.
type UnknownPolicyError struct {
	PolicyID string
}

func (e *UnknownPolicyError) Error() string {
	return fmt.Sprintf("unknown scoring policy %q", e.PolicyID)
}
