package remover

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/lumipallolabs/dupedive/internal/model"
)

// Policy selects which member of a group survives a bulk delete
type Policy string

const (
	KeepFirst    Policy = "first"    // first in scan order
	KeepOldest   Policy = "oldest"   // earliest birth time, else modification time
	KeepNewest   Policy = "newest"   // latest birth time, else modification time
	KeepShortest Policy = "shortest" // shortest path
)

// ErrUnknownPolicy is returned by ParsePolicy for unknown names
var ErrUnknownPolicy = errors.New("unknown keep policy")

// Policies lists the supported policies
func Policies() []Policy {
	return []Policy{KeepFirst, KeepOldest, KeepNewest, KeepShortest}
}

// ParsePolicy converts a policy name, case-insensitively
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KeepFirst, nil
	}
	for _, p := range Policies() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Describe says which copy of each group survives
func (p Policy) Describe() string {
	switch p {
	case KeepOldest:
		return "keeping the oldest copy of each group"
	case KeepNewest:
		return "keeping the newest copy of each group"
	case KeepShortest:
		return "keeping the shortest path of each group"
	default:
		return "keeping the first copy of each group"
	}
}

// Keeper returns the index of the member the policy keeps. Ties go to the earlier
// member in scan order; members whose times can't be read lose to those that can.
func Keeper(group model.DuplicateGroup, policy Policy) (int, error) {
	if len(group.Members) == 0 {
		return -1, nil
	}

	switch policy {
	case KeepFirst, "":
		return 0, nil
	case KeepShortest:
		best := 0
		for i, m := range group.Members {
			if len(m.Path) < len(group.Members[best].Path) {
				best = i
			}
		}
		return best, nil
	case KeepOldest, KeepNewest:
		best := -1
		var bestTime time.Time
		for i, m := range group.Members {
			t, ok := statTime(m.Path)
			if !ok {
				continue
			}
			if best < 0 ||
				(policy == KeepOldest && t.Before(bestTime)) ||
				(policy == KeepNewest && t.After(bestTime)) {
				best, bestTime = i, t
			}
		}
		if best < 0 {
			best = 0
		}
		return best, nil
	default:
		return -1, fmt.Errorf("%w: %q", ErrUnknownPolicy, string(policy))
	}
}

// Plan returns the indices to delete so that exactly one member remains
func Plan(group model.DuplicateGroup, policy Policy) ([]int, error) {
	keep, err := Keeper(group, policy)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, len(group.Members))
	for i := range group.Members {
		if i != keep {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

// statTime is swapped in tests
var statTime = fileTime

// fileTime returns the birth time when the platform records one, else the mtime
func fileTime(path string) (time.Time, bool) {
	ts, err := times.Lstat(path)
	if err != nil {
		return time.Time{}, false
	}
	if ts.HasBirthTime() {
		return ts.BirthTime(), true
	}
	return ts.ModTime(), true
}
