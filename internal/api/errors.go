package api

import "fmt"

// PersistenceError reports a collaborator-side rejection (success:false).
// Local state is left unchanged and no automatic retry happens.
type PersistenceError struct {
	Op      string
	Message string
}

func (e PersistenceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: persistence rejected the request", e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// NetworkError reports a failed request (transport error or non-2xx without
// an envelope). Handled identically to PersistenceError by callers.
type NetworkError struct {
	Op  string
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e NetworkError) Unwrap() error {
	return e.Err
}
