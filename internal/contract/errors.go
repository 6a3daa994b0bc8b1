package contract

import "fmt"

// RepoOpenError means the path is not a readable repository.
type RepoOpenError struct {
	Path string
	Err  error
}

func (e *RepoOpenError) Error() string {
	return fmt.Sprintf("cannot open repository %q: %v", e.Path, e.Err)
}

func (e *RepoOpenError) Unwrap() error { return e.Err }

// CommitResolutionError means HEAD or a commit id could not be resolved.
type CommitResolutionError struct {
	Ref string
	Err error
}

func (e *CommitResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve commit %q: %v", e.Ref, e.Err)
}

func (e *CommitResolutionError) Unwrap() error { return e.Err }

// DiffComputationError means two trees could not be diffed.
type DiffComputationError struct {
	OldTree string
	NewTree string
	Err     error
}

func (e *DiffComputationError) Error() string {
	old := e.OldTree
	if old == "" {
		old = "<empty>"
	}
	return fmt.Sprintf("cannot diff tree %s against %s: %v", old, e.NewTree, e.Err)
}

func (e *DiffComputationError) Unwrap() error { return e.Err }

// SerializationError means the report could not be encoded.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("cannot serialize report for %q: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// WriteError means the report file could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write report to %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
