package lint

import (
	"errors"
	"fmt"
)

// Configuration, path and tool errors. Check with errors.Is.
var (
	// ErrDuplicateRule is returned when a rule id is registered twice.
	ErrDuplicateRule = errors.New("duplicate rule id")
	// ErrInvalidRule is returned for rule definitions that cannot be dispatched.
	ErrInvalidRule = errors.New("invalid rule definition")
	// ErrRegistrySealed is returned when registering into a registry already in use.
	ErrRegistrySealed = errors.New("rule registry is sealed")
	// ErrInvalidSelection is returned for malformed enable/disable specs.
	ErrInvalidSelection = errors.New("invalid rule selection")
	// ErrInvalidOptions is returned for rule options a rule cannot accept.
	ErrInvalidOptions = errors.New("invalid rule options")
	// ErrPathNotFound is returned when a scan root does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrToolNotFound is returned by external checkers whose executable cannot be resolved.
	ErrToolNotFound = errors.New("external tool not installed")
)

// PathNotFound builds the error reported for a missing scan root.
func PathNotFound(path string) error {
	return fmt.Errorf("%w: %q", ErrPathNotFound, path)
}
