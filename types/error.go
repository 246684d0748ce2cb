package types

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// MachineNotFound is returned when a mandatory Query matches no Rule at
// all - not "the Rule ran and produced nothing", but "no Rule claims to be
// able to build this Name".
type MachineNotFound struct {
	Query   string
	Name    Name
	Similar []Name
}

func (e *MachineNotFound) Error() string {
	if len(e.Similar) == 0 {
		return fmt.Sprintf("no rule can build %s (query %s)", e.Name, e.Query)
	}
	names := make([]string, len(e.Similar))
	for i, n := range e.Similar {
		names[i] = n.String()
	}
	return fmt.Sprintf("no rule can build %s (query %s); similar names of the same class exist: %s", e.Name, e.Query, strings.Join(names, ", "))
}

// UnsatisfiedDependency is one leaf cause inside an UnsatisfiedDependencies
// aggregate: a single BOM entry, somewhere in a build graph, that could not
// be satisfied.
type UnsatisfiedDependency struct {
	Path  string // path from the build root to the failing dependency, steps joined by " -> "
	Query string
	Cause error
}

func (e *UnsatisfiedDependency) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Query, e.Cause)
}

func (e *UnsatisfiedDependency) Unwrap() error { return e.Cause }

// UnsatisfiedDependencies aggregates every UnsatisfiedDependency found
// while building one graph, so a single build attempt reports everything
// wrong with it instead of failing on the first broken edge.
type UnsatisfiedDependencies struct {
	merr *multierror.Error
}

// NewUnsatisfiedDependencies returns an empty, appendable aggregate.
func NewUnsatisfiedDependencies() *UnsatisfiedDependencies {
	return &UnsatisfiedDependencies{merr: &multierror.Error{}}
}

// Add records one more leaf failure.
func (u *UnsatisfiedDependencies) Add(dep *UnsatisfiedDependency) {
	u.merr = multierror.Append(u.merr, dep)
}

// Empty reports whether no failures were ever added.
func (u *UnsatisfiedDependencies) Empty() bool {
	return u.merr == nil || len(u.merr.Errors) == 0
}

// ErrorOrNil returns nil if Empty, otherwise itself as an error.
func (u *UnsatisfiedDependencies) ErrorOrNil() error {
	if u.Empty() {
		return nil
	}
	return u
}

func (u *UnsatisfiedDependencies) Error() string {
	return u.merr.Error()
}

// Causes returns the individual UnsatisfiedDependency entries.
func (u *UnsatisfiedDependencies) Causes() []*UnsatisfiedDependency {
	out := make([]*UnsatisfiedDependency, 0, len(u.merr.Errors))
	for _, e := range u.merr.Errors {
		if d, ok := e.(*UnsatisfiedDependency); ok {
			out = append(out, d)
		}
	}
	return out
}

// Ambiguous is raised immediately (not accumulated) when a non-Multiple
// Query matches more than one Name.
type Ambiguous struct {
	Query string
	Names []Name
}

func (e *Ambiguous) Error() string {
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = n.String()
	}
	return fmt.Sprintf("query %s is not declared Multiple but matches %d names: %s", e.Query, len(e.Names), strings.Join(names, ", "))
}

// Cycle is raised when the dependency graph rooted at a build cannot be
// topologically sorted - every Name still reachable after Kahn's algorithm
// terminates is listed.
type Cycle struct {
	Names []Name
}

func (e *Cycle) Error() string {
	names := make([]string, len(e.Names))
	for i, n := range e.Names {
		names[i] = n.String()
	}
	return fmt.Sprintf("dependency cycle among: %s", strings.Join(names, " -> "))
}

// DuplicateName is raised when two Rules from the same bucket (the same
// rule source, the same overlay) declare the identical Name at the same
// Priority, leaving no way to pick a winner.
type DuplicateName struct {
	Bucket string
	Name   Name
}

func (e *DuplicateName) Error() string {
	return fmt.Sprintf("bucket %q declares %s twice at the same priority", e.Bucket, e.Name)
}

// RuleDiscoveryFailure wraps an error returned by a RuleSource during
// bootstrap.
type RuleDiscoveryFailure struct {
	Source string
	Err    error
}

func (e *RuleDiscoveryFailure) Error() string {
	return fmt.Sprintf("rule source %q failed to discover rules: %v", e.Source, e.Err)
}

func (e *RuleDiscoveryFailure) Unwrap() error { return e.Err }
