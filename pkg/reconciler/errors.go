package reconciler

import "fmt"

// ContractError reports a protocol breach by an upstream collaborator: a
// descriptor carrying out-of-range indices, or state that can no longer be
// reconciled. It is a programming defect, not a user error, and is
// non-recoverable for the affected widget instance.
type ContractError struct {
	WidgetID string
	Reason   string
	Err      error // Underlying sentinel, if any
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract violation for widget %q: %s", e.WidgetID, e.Reason)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
