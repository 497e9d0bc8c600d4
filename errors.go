package zonegen

import (
	"fmt"
)

// DecodeError is returned when the input document does not have the expected
// shape. It carries the input dialect, the path of the offending field within
// the document, and the most specific source location available. TOML values
// carry no per-node position, in which case Line is 0 and only the path is
// reported.
type DecodeError struct {
	Dialect Dialect
	Path    string
	Line    int
	Column  int
	Reason  string
}

func (e *DecodeError) Error() string {
	loc := ""
	if e.Line > 0 {
		loc = fmt.Sprintf(" (line %d, column %d)", e.Line, e.Column)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s decode error at '%s'%s: %s", e.Dialect, e.Path, loc, e.Reason)
	}
	return fmt.Sprintf("%s decode error%s: %s", e.Dialect, loc, e.Reason)
}

// ValidationError is returned when a single value violates DNS or email
// syntax rules, or when a zone's timer relationship is invalid. Zone and
// Field identify where the value came from when known.
type ValidationError struct {
	Zone   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Zone != "" {
		msg = fmt.Sprintf("zone '%s': %s", e.Zone, msg)
	}
	return msg
}

// SemanticError is returned when a cross-entity invariant is violated, such
// as a duplicate PTR target, overlapping reverse networks, a zone without
// nameservers, or a missing email with no default to fall back to.
type SemanticError struct {
	Zone   string
	Reason string
}

func (e *SemanticError) Error() string {
	if e.Zone != "" {
		return fmt.Sprintf("zone '%s': %s", e.Zone, e.Reason)
	}
	return e.Reason
}

// PersistenceError is returned when the serial counter file cannot be
// written. A failure here is fatal since silently keeping the old value
// risks serial regression on the next run.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cannot persist serial to '%s': %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// annotate fills in the zone (and field, for validation errors) on errors
// bubbling up from the record derivation helpers, without clobbering
// locations that were already set closer to the source.
func annotate(err error, zone, field string) error {
	switch e := err.(type) {
	case *ValidationError:
		if e.Zone == "" {
			e.Zone = zone
		}
		if e.Field == "" {
			e.Field = field
		}
	case *SemanticError:
		if e.Zone == "" {
			e.Zone = zone
		}
	}
	return err
}
