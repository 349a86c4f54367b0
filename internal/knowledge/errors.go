package knowledge

import "fmt"

// ConfigurationError reports that the knowledge directory could not be
// prepared (creation failure, permissions). Fatal at startup.
type ConfigurationError struct {
	Dir string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("knowledge: cannot prepare directory %s: %v", e.Dir, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// StorageError reports that a persisted knowledge file exists but does not
// parse as the expected structure. The store refuses to start rather than
// silently truncate history.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("knowledge: malformed file %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError reports a failed write after a successful in-memory
// append. The store rolls the append back before returning it, so memory and
// disk never diverge; the caller decides whether to retry the whole
// operation.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("knowledge: write failed for %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError reports a record that violates its declared domain, such
// as an insight confidence outside [0, 1].
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("knowledge: invalid %s: %s", e.Field, e.Reason)
}
