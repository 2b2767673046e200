package core

import (
	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/model"
	"github.com/lumipallolabs/dupedive/internal/remover"
	"github.com/sirupsen/logrus"
)

// DeleteReport is the outcome of a deletion plus the updated freed counters
type DeleteReport struct {
	remover.Report
	Freed FreedState
}

func (c *Controller) newRemover() remover.Remover {
	return remover.Remover{DryRun: c.opts.DryRun}
}

// DeleteFiles removes the members of group at indices. Removing every member
// fails with remover.ErrWouldDeleteAll unless confirmAll is set.
// The current result is left untouched; rescan to refresh it.
func (c *Controller) DeleteFiles(group model.DuplicateGroup, indices []int, confirmAll bool) (DeleteReport, error) {
	report, err := c.newRemover().RemoveFromGroup(group, indices, confirmAll)
	if err != nil {
		return DeleteReport{Report: report, Freed: c.FreedState()}, err
	}
	return c.account(report), nil
}

// DeleteAllDuplicates removes all but one member of every group, the survivor
// chosen by policy
func (c *Controller) DeleteAllDuplicates(groups []model.DuplicateGroup, policy remover.Policy) (DeleteReport, error) {
	report, err := c.newRemover().RemoveDuplicates(groups, policy)
	out := c.account(report)
	return out, err
}

// account adds a removal to the freed counters
func (c *Controller) account(report remover.Report) DeleteReport {
	logging.Debug.WithFields(logrus.Fields{
		"deleted": len(report.Deleted),
		"failed":  len(report.Failed),
		"bytes":   report.BytesFreed,
		"dry_run": report.DryRun,
	}).Info("deletion finished")

	c.mu.Lock()
	defer c.mu.Unlock()

	if !report.DryRun && report.BytesFreed > 0 {
		c.freed.Session += report.BytesFreed
		c.freed.Lifetime += report.BytesFreed
		c.statsManager.AddFreed(len(report.Deleted), report.BytesFreed)
	}
	return DeleteReport{Report: report, Freed: c.freed}
}
