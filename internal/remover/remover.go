package remover

import (
	"errors"
	"os"

	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/model"
)

// ErrWouldDeleteAll is returned when a selection covers every member of a group
var ErrWouldDeleteAll = errors.New("selection would delete every copy")

// Failure records a path that could not be removed
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a removal run
type Report struct {
	Deleted    []string
	Failed     []Failure
	BytesFreed int64
	DryRun     bool
}

// Merge folds another report into r
func (r *Report) Merge(other Report) {
	r.Deleted = append(r.Deleted, other.Deleted...)
	r.Failed = append(r.Failed, other.Failed...)
	r.BytesFreed += other.BytesFreed
	r.DryRun = r.DryRun || other.DryRun
}

// Remover deletes duplicate files
type Remover struct {
	DryRun bool
}

// Remove deletes each file, continuing past failures
func (rm Remover) Remove(files []model.FileRecord) Report {
	report := Report{DryRun: rm.DryRun}
	for _, f := range files {
		if err := rm.remove(f.Path); err != nil {
			logging.Debug.WithField("path", f.Path).WithError(err).Warn("delete failed")
			report.Failed = append(report.Failed, Failure{Path: f.Path, Err: err})
			continue
		}
		report.Deleted = append(report.Deleted, f.Path)
		report.BytesFreed += f.Size
	}
	return report
}

// RemoveFromGroup deletes the members at indices. Out of range indices are ignored.
// Unless allowAll is set, a selection that would leave no copy is refused.
func (rm Remover) RemoveFromGroup(group model.DuplicateGroup, indices []int, allowAll bool) (Report, error) {
	selected := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(group.Members) {
			selected[idx] = true
		}
	}

	if !allowAll && len(group.Members) > 0 && len(selected) == len(group.Members) {
		return Report{DryRun: rm.DryRun}, ErrWouldDeleteAll
	}

	files := make([]model.FileRecord, 0, len(selected))
	for idx, m := range group.Members {
		if selected[idx] {
			files = append(files, m)
		}
	}
	return rm.Remove(files), nil
}

// RemoveDuplicates deletes every member except the one chosen by policy in each group
func (rm Remover) RemoveDuplicates(groups []model.DuplicateGroup, policy Policy) (Report, error) {
	total := Report{DryRun: rm.DryRun}
	for _, g := range groups {
		indices, err := Plan(g, policy)
		if err != nil {
			return total, err
		}
		report, err := rm.RemoveFromGroup(g, indices, false)
		if err != nil {
			return total, err
		}
		total.Merge(report)
	}
	return total, nil
}

func (rm Remover) remove(path string) error {
	if rm.DryRun {
		_, err := os.Lstat(path)
		return err
	}
	logging.Debug.WithField("path", path).Info("deleting duplicate")
	return os.Remove(path)
}
