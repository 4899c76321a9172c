package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by errors.Is against an *Issue.
var (
	ErrMissingSection      = errors.New("missing section")
	ErrUnresolvedReference = errors.New("unresolved song reference")
	ErrFieldType           = errors.New("field type error")
	ErrIncompleteEntry     = errors.New("incomplete entry")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrSyntax              = errors.New("syntax error")
	// ErrNotLibrary is returned when the input holds no library object at all.
	ErrNotLibrary = errors.New("input is not a library object")
)

// IssueKind classifies a load problem.
type IssueKind int

const (
	IssueMissingSection IssueKind = iota + 1
	IssueUnresolvedReference
	IssueFieldType
	IssueIncompleteEntry
	IssueDuplicateEntry
	IssueSyntax
)

func (k IssueKind) String() string {
	switch k {
	case IssueMissingSection:
		return "missing_section"
	case IssueUnresolvedReference:
		return "unresolved_reference"
	case IssueFieldType:
		return "field_type"
	case IssueIncompleteEntry:
		return "incomplete_entry"
	case IssueDuplicateEntry:
		return "duplicate_entry"
	case IssueSyntax:
		return "syntax"
	default:
		return "unknown"
	}
}

func (k IssueKind) sentinel() error {
	switch k {
	case IssueMissingSection:
		return ErrMissingSection
	case IssueUnresolvedReference:
		return ErrUnresolvedReference
	case IssueFieldType:
		return ErrFieldType
	case IssueIncompleteEntry:
		return ErrIncompleteEntry
	case IssueDuplicateEntry:
		return ErrDuplicateEntry
	case IssueSyntax:
		return ErrSyntax
	default:
		return nil
	}
}

// Issue is one problem found while loading. Section names the wire section;
// Entry is the entry index (or playlist name) within it, empty for
// section-level problems.
type Issue struct {
	Kind    IssueKind
	Section string
	Entry   string
	Field   string
	Err     error
}

func (i *Issue) Error() string {
	var loc strings.Builder
	loc.WriteString(i.Section)
	if i.Entry != "" {
		loc.WriteString("[" + i.Entry + "]")
	}
	if i.Field != "" {
		loc.WriteString("." + i.Field)
	}
	prefix := strings.ReplaceAll(i.Kind.String(), "_", " ")
	if loc.Len() == 0 {
		return fmt.Sprintf("%s: %v", prefix, i.Err)
	}
	return fmt.Sprintf("%s: %s: %v", loc.String(), prefix, i.Err)
}

func (i *Issue) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := i.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if i.Err != nil {
		out = append(out, i.Err)
	}
	return out
}

// ErrorKind classifies the issue for callers that map errors to outcomes.
func (i *Issue) ErrorKind() string {
	return i.Kind.String()
}

// Recoverable reports whether the issue only drops data silently in the
// legacy loader (missing sections, unresolved references, duplicates).
func (i *Issue) Recoverable() bool {
	switch i.Kind {
	case IssueFieldType, IssueSyntax:
		return false
	}
	return true
}

// Report summarizes one load: how much was applied and what went wrong.
type Report struct {
	Songs       int
	Albums      int
	Playlists   int
	RecentPlays int
	Issues      []*Issue
}

func (r *Report) add(kind IssueKind, section, entry, field string, err error) {
	r.Issues = append(r.Issues, &Issue{Kind: kind, Section: section, Entry: entry, Field: field, Err: err})
}

// Count returns the number of issues of the given kind.
func (r *Report) Count(kind IssueKind) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			n++
		}
	}
	return n
}

// Clean reports whether the load produced no issues at all.
func (r *Report) Clean() bool {
	return len(r.Issues) == 0
}

// Err joins the issues that are not recoverable (field type and syntax
// errors). It returns nil when everything in the input was usable or only
// dropped for recoverable reasons.
func (r *Report) Err() error {
	var errs []error
	for _, issue := range r.Issues {
		if !issue.Recoverable() {
			errs = append(errs, issue)
		}
	}
	return errors.Join(errs...)
}

// Summary renders a one-line description suitable for logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d songs, %d albums, %d playlists, %d recent plays, %d issues",
		r.Songs, r.Albums, r.Playlists, r.RecentPlays, len(r.Issues))
}
