package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/lumipallolabs/dupedive/internal/dedupe"
	"github.com/lumipallolabs/dupedive/internal/hasher"
	"github.com/lumipallolabs/dupedive/internal/history"
	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/model"
	"github.com/lumipallolabs/dupedive/internal/scanner"
	"github.com/lumipallolabs/dupedive/internal/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrScanInProgress is returned when a scan is started while another is running
var ErrScanInProgress = errors.New("scan already in progress")

// historyKeep is the number of snapshots retained per root
const historyKeep = 20

// Options configures scanning
type Options struct {
	Algorithm   string  // digest name, empty for the default
	Workers     int     // walk parallelism
	HashWorkers int     // files hashed concurrently
	MinSize     int64   // skip files smaller than this
	MaxSize     int64   // skip files larger than this, 0 for no limit
	RateLimit   float64 // files opened per second while hashing, 0 for no limit
	DryRun      bool    // deletions only report what they would remove
	StateDir    string  // stats and history location, empty for ~/.dupedive
}

// Controller manages the core application logic without UI dependencies
type Controller struct {
	mu sync.RWMutex

	// State
	root     string
	opts     Options
	scan     ScanState
	result   *ScanResult
	freed    FreedState
	scanning bool

	// Internal services
	hasher       *hasher.Hasher
	limiter      *rate.Limiter
	statsManager *stats.Manager
	history      *history.Store
}

// NewController creates a controller that scans root
func NewController(root string, opts Options) (*Controller, error) {
	h := hasher.Default()
	if opts.Algorithm != "" {
		var err error
		if h, err = hasher.New(opts.Algorithm); err != nil {
			return nil, err
		}
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	stateDir := opts.StateDir
	if stateDir == "" {
		stateDir = stats.Dir()
	}

	statsMgr := stats.NewManager(filepath.Join(stateDir, "stats.json"))
	if err := statsMgr.Load(); err != nil {
		logging.Debug.WithError(err).Warn("failed to load stats")
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Controller{
		root:         root,
		opts:         opts,
		hasher:       h,
		limiter:      limiter,
		statsManager: statsMgr,
		history:      history.New(history.DefaultDir(stateDir), historyKeep),
		freed: FreedState{
			Lifetime: statsMgr.FreedLifetime(),
		},
	}, nil
}

// Root returns the directory being scanned
func (c *Controller) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// Algorithm returns the digest used for content comparison
func (c *Controller) Algorithm() string {
	return c.hasher.Algorithm()
}

// DryRun reports whether deletions are simulated
func (c *Controller) DryRun() bool {
	return c.opts.DryRun
}

// Result returns the latest scan result, nil before the first scan completes
func (c *Controller) Result() *ScanResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// ScanState returns the current scan state
func (c *Controller) ScanState() ScanState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scan
}

// FreedState returns the current freed space state
func (c *Controller) FreedState() FreedState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.freed
}

// StartScan begins scanning the root in the background. The returned channel
// is closed after the ScanCompletedEvent.
func (c *Controller) StartScan(ctx context.Context) (<-chan Event, error) {
	if err := c.beginScan(); err != nil {
		return nil, err
	}

	eventCh := make(chan Event, 100)
	go func() {
		defer close(eventCh)
		result, err := c.runScan(ctx, eventCh)
		if err != nil {
			eventCh <- ErrorEvent{Err: err}
		}
		eventCh <- ScanCompletedEvent{Result: result, Err: err}
	}()

	return eventCh, nil
}

// Scan runs a scan to completion on the calling goroutine
func (c *Controller) Scan(ctx context.Context) (*ScanResult, error) {
	if err := c.beginScan(); err != nil {
		return nil, err
	}
	return c.runScan(ctx, nil)
}

// FinalizeScan marks the scan as fully complete (after UI delay)
func (c *Controller) FinalizeScan() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.scanning {
		c.scan.Phase = PhaseIdle
	}
}

func (c *Controller) beginScan() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scanning {
		return ErrScanInProgress
	}
	c.scanning = true
	c.scan = ScanState{Phase: PhaseScanning, StartTime: time.Now()}
	return nil
}

// runScan walks the root, groups duplicates and records the outcome.
// eventCh may be nil.
func (c *Controller) runScan(ctx context.Context, eventCh chan<- Event) (*ScanResult, error) {
	// send blocks, offer drops the event when the consumer lags
	send := func(ev Event) {
		if eventCh != nil {
			eventCh <- ev
		}
	}
	offer := func(ev Event) {
		if eventCh == nil {
			return
		}
		select {
		case eventCh <- ev:
		default:
		}
	}

	c.mu.RLock()
	root, opts := c.root, c.opts
	start := c.scan.StartTime
	c.mu.RUnlock()

	logging.Debug.WithField("root", root).Info("starting scan")
	send(ScanStartedEvent{Path: root})

	var walker scanner.Scanner = scanner.NewWalker(scanner.Options{
		Workers: opts.Workers,
		MinSize: opts.MinSize,
		MaxSize: opts.MaxSize,
	})

	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for p := range walker.Progress() {
			c.mu.Lock()
			c.scan.FilesScanned = p.FilesScanned
			c.scan.BytesFound = p.BytesFound
			c.mu.Unlock()

			offer(ScanProgressEvent{
				Phase:        PhaseScanning,
				FilesScanned: p.FilesScanned,
				BytesFound:   p.BytesFound,
			})
		}
	}()

	files, err := walker.Scan(ctx, root)
	<-progressDone
	if err != nil {
		c.failScan()
		logging.Debug.WithError(err).Warn("scan failed")
		return nil, err
	}

	candidates := len(dedupe.Candidates(files))

	c.mu.Lock()
	c.scan.Phase = PhaseHashing
	c.scan.FilesScanned = int64(len(files))
	c.scan.Candidates = int64(candidates)
	scanned, found := c.scan.FilesScanned, c.scan.BytesFound
	c.mu.Unlock()

	send(ScanPhaseChangedEvent{Phase: PhaseHashing})
	logging.Debug.WithFields(logrus.Fields{
		"files":      len(files),
		"candidates": candidates,
		"algorithm":  c.hasher.Algorithm(),
	}).Info("hashing candidates")

	var skipped []SkippedFile
	groups, err := dedupe.FindDuplicatesContext(ctx, files, dedupe.Options{
		Hasher:  c.hasher,
		Workers: opts.HashWorkers,
		Limiter: c.limiter,
		OnHashed: func(_ model.FileRecord, _ error) {
			c.mu.Lock()
			c.scan.Hashed++
			hashed := c.scan.Hashed
			c.mu.Unlock()

			offer(ScanProgressEvent{
				Phase:        PhaseHashing,
				FilesScanned: scanned,
				BytesFound:   found,
				Candidates:   int64(candidates),
				Hashed:       hashed,
			})
		},
		OnSkipped: func(r model.FileRecord, err error) {
			skipped = append(skipped, SkippedFile{Path: r.Path, Err: err})
		},
	})
	if err != nil {
		c.failScan()
		return nil, fmt.Errorf("hash candidates: %w", err)
	}

	model.SortGroups(groups)
	result := &ScanResult{
		Root:       root,
		Algorithm:  c.hasher.Algorithm(),
		Files:      len(files),
		Candidates: candidates,
		Groups:     groups,
		Stats:      model.Aggregate(groups),
		Skipped:    skipped,
		Duration:   time.Since(start),
	}
	c.recordHistory(result)

	c.mu.Lock()
	c.scan.Phase = PhaseComplete
	c.result = result
	c.scanning = false
	c.mu.Unlock()

	send(ScanPhaseChangedEvent{Phase: PhaseComplete})
	logging.Debug.WithFields(logrus.Fields{
		"groups":   result.Stats.GroupCount,
		"wasted":   result.Stats.WastedBytes,
		"skipped":  len(skipped),
		"duration": result.Duration,
	}).Info("scan complete")

	return result, nil
}

func (c *Controller) failScan() {
	c.mu.Lock()
	c.scan.Phase = PhaseIdle
	c.scanning = false
	c.mu.Unlock()
}

// recordHistory attaches the previous snapshot of this root and stores the new one
func (c *Controller) recordHistory(result *ScanResult) {
	prev, err := c.history.LoadLatest(result.Root)
	if err != nil && !errors.Is(err, history.ErrNoHistory) {
		logging.Debug.WithError(err).Warn("failed to load scan history")
	}
	result.Previous = prev
	result.Delta = history.Compare(prev, result.Stats)

	snap := history.Snapshot{
		Root:      result.Root,
		Algorithm: result.Algorithm,
		Taken:     time.Now(),
		Files:     result.Files,
		Stats:     result.Stats,
	}
	if err := c.history.Save(snap); err != nil {
		logging.Debug.WithError(err).Warn("failed to save scan history")
	}
	c.statsManager.RecordScan(result.Root)
}

// Stop cleans up resources
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.statsManager != nil {
		if err := c.statsManager.Close(); err != nil {
			logging.Debug.WithError(err).Warn("failed to save stats")
		}
	}
}
