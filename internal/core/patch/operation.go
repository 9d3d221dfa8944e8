package patch

import (
	"fmt"

	"ppdeploy/internal/core/domain"
)

type Action int

const (
	InsertAfter Action = iota
	InsertBefore
	// ReplaceMatch replaces the located text with Payload, or with the result
	// of Rewrite when it is set.
	ReplaceMatch
	// ReplaceLiteral replaces a literal Locate with Payload verbatim.
	ReplaceLiteral
)

func (a Action) String() string {
	switch a {
	case InsertAfter:
		return "insert-after"
	case InsertBefore:
		return "insert-before"
	case ReplaceMatch:
		return "replace-match"
	case ReplaceLiteral:
		return "replace-literal"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Selection decides which of the located matches the action applies to.
type Selection int

const (
	SelectFirst Selection = iota
	SelectLast
	SelectAll
	// SelectExactlyOne fails with domain.ErrAmbiguousTarget unless Locate
	// matches exactly once.
	SelectExactlyOne
)

// Operation is one idempotent text transformation.
//
// Marker is checked first against the current text: when it is present the
// operation is reported as already applied and nothing else happens. Locate
// is then searched in the current text, never in a cached copy, so earlier
// operations in the same run are always visible to later ones.
type Operation struct {
	Name   string
	Marker Pattern
	Locate Pattern
	// Fallback is searched when Locate finds nothing. Only the first
	// Fallback match is used.
	Fallback Pattern
	Action   Action
	Payload  string
	// ExpandGroups enables ${n} references to Locate's capture groups in Payload.
	ExpandGroups bool
	// Rewrite computes the replacement for a ReplaceMatch from the match
	// groups (index 0 is the whole match). Returning false leaves that match
	// untouched.
	Rewrite func(groups []string) (string, bool)
	Select  Selection
	// Optional turns a missing anchor into a skip instead of
	// domain.ErrPreconditionNotMet.
	Optional bool
}

type Status int

const (
	StatusApplied Status = iota
	StatusAlreadyPresent
	StatusFailedPrecondition
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusAlreadyPresent:
		return "already present"
	case StatusFailedPrecondition:
		return "failed precondition"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result records what an operation did to one file. Matches counts the edits
// made, or zero when nothing changed.
type Result struct {
	Operation string
	File      string
	Status    Status
	Matches   int
}

// OperationError names the operation and file a patch failed on.
type OperationError struct {
	Operation string
	File      string
	Err       error
}

func (e *OperationError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("patch '%s' failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("patch '%s' failed on %s: %v", e.Operation, e.File, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func (op Operation) validate() error {
	if op.Name == "" {
		return fmt.Errorf("operation has empty name")
	}
	if op.Locate.IsZero() {
		return fmt.Errorf("operation '%s' has no locate pattern", op.Name)
	}
	if (op.Action == InsertAfter || op.Action == InsertBefore) && op.Marker.IsZero() {
		// Without a marker an insert would repeat on every run.
		return fmt.Errorf("insert operation '%s' requires a marker", op.Name)
	}
	if op.Action == ReplaceLiteral && !op.Locate.IsLiteral() {
		return fmt.Errorf("operation '%s' replaces a literal but locates %s", op.Name, op.Locate)
	}
	if op.Rewrite != nil && op.Action != ReplaceMatch {
		return fmt.Errorf("operation '%s' sets a rewrite on a %s action", op.Name, op.Action)
	}
	return nil
}

// apply runs op against text and returns the new text, the number of edits and
// the resulting status.
func (op Operation) apply(text string) (string, int, Status, error) {
	if err := op.validate(); err != nil {
		return text, 0, StatusFailedPrecondition, err
	}

	if op.Marker.Contains(text) {
		return text, 0, StatusAlreadyPresent, nil
	}

	anchor := op.Locate
	matches := anchor.findAll(text)
	if len(matches) == 0 && !op.Fallback.IsZero() {
		anchor = op.Fallback
		if found := anchor.findAll(text); len(found) > 0 {
			matches = found[:1]
		}
	}

	if len(matches) == 0 {
		switch {
		case op.Optional:
			return text, 0, StatusAlreadyPresent, nil
		case op.Select == SelectExactlyOne:
			return text, 0, StatusFailedPrecondition, fmt.Errorf("%w: %s found no match", domain.ErrAmbiguousTarget, op.Locate)
		default:
			return text, 0, StatusFailedPrecondition, fmt.Errorf("%w: anchor %s not found", domain.ErrPreconditionNotMet, op.Locate)
		}
	}

	switch op.Select {
	case SelectFirst:
		matches = matches[:1]
	case SelectLast:
		matches = matches[len(matches)-1:]
	case SelectExactlyOne:
		if len(matches) != 1 {
			return text, 0, StatusFailedPrecondition, fmt.Errorf("%w: %s found %d matches, expected exactly one", domain.ErrAmbiguousTarget, op.Locate, len(matches))
		}
	}

	// Edit back to front so the offsets of earlier matches stay valid.
	original := text
	edits := 0
	for i := len(matches) - 1; i >= 0; i-- {
		match := matches[i]
		start, end := match[0], match[1]

		replacement, ok := op.replacement(anchor, original, match)
		if !ok {
			continue
		}

		switch op.Action {
		case InsertAfter:
			text = text[:end] + replacement + text[end:]
		case InsertBefore:
			text = text[:start] + replacement + text[start:]
		case ReplaceMatch, ReplaceLiteral:
			if original[start:end] == replacement {
				continue
			}
			text = text[:start] + replacement + text[end:]
		}
		edits++
	}

	if edits == 0 {
		return original, 0, StatusAlreadyPresent, nil
	}
	return text, edits, StatusApplied, nil
}

func (op Operation) replacement(anchor Pattern, text string, match []int) (string, bool) {
	if op.Rewrite != nil {
		return op.Rewrite(groups(text, match))
	}
	if op.ExpandGroups && op.Action != ReplaceLiteral {
		return anchor.expand(op.Payload, text, match), true
	}
	return op.Payload, true
}
