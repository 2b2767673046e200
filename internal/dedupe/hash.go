package dedupe

import (
	"context"
	"errors"
	"sync"

	"github.com/lumipallolabs/dupedive/internal/hasher"
	"github.com/lumipallolabs/dupedive/internal/logging"
	"github.com/lumipallolabs/dupedive/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options tunes the hashing phase. The zero value hashes sequentially with the
// default algorithm.
type Options struct {
	Hasher  *hasher.Hasher
	Workers int           // files hashed concurrently, <= 1 means sequential
	Limiter *rate.Limiter // waited on before each file is opened

	// OnHashed is called once per record after hashing, err is nil on success.
	// OnSkipped is called for records left out because they could not be hashed.
	// Calls are serialized.
	OnHashed  func(r model.FileRecord, err error)
	OnSkipped func(r model.FileRecord, err error)
}

func (o Options) withDefaults() Options {
	if o.Hasher == nil {
		o.Hasher = hasher.Default()
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// BucketByHash partitions records by content fingerprint, keeping only fingerprints
// shared by 2+ records. Records that fail to hash are silently excluded. Members keep
// their input order regardless of how hashing was scheduled. If ctx is cancelled the
// partial result is discarded and an empty map is returned.
func BucketByHash(ctx context.Context, records []model.FileRecord, opts Options) map[string][]model.FileRecord {
	buckets, _, err := bucketByHash(ctx, records, opts)
	if err != nil {
		return map[string][]model.FileRecord{}
	}
	return buckets
}

// bucketByHash also returns, per fingerprint, the input index of the first member
func bucketByHash(ctx context.Context, records []model.FileRecord, opts Options) (map[string][]model.FileRecord, map[string]int, error) {
	opts = opts.withDefaults()

	fingerprints := make([]string, len(records))
	hashed := make([]bool, len(records))

	var cbMu sync.Mutex
	report := func(r model.FileRecord, err error) {
		if opts.OnHashed == nil && (err == nil || opts.OnSkipped == nil) {
			return
		}
		cbMu.Lock()
		defer cbMu.Unlock()
		if opts.OnHashed != nil {
			opts.OnHashed(r, err)
		}
		if err != nil && opts.OnSkipped != nil {
			opts.OnSkipped(r, err)
		}
	}

	var g errgroup.Group
	g.SetLimit(opts.Workers)

	for i := range records {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r := records[i]
			if opts.Limiter != nil {
				if err := opts.Limiter.Wait(ctx); err != nil {
					return nil
				}
			}

			fp, err := opts.Hasher.HashFile(ctx, r.Path)
			if err != nil {
				if isCancellation(err) {
					return nil
				}
				logging.Scanner.WithField("path", r.Path).WithError(err).Debug("skipping file that could not be hashed")
				report(r, err)
				return nil
			}

			fingerprints[i] = fp
			hashed[i] = true
			report(r, nil)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Rebuild buckets in input order so parallel hashing can't reorder members
	buckets := make(map[string][]model.FileRecord)
	first := make(map[string]int)
	for i, r := range records {
		if !hashed[i] {
			continue
		}
		fp := fingerprints[i]
		if _, seen := first[fp]; !seen {
			first[fp] = i
		}
		buckets[fp] = append(buckets[fp], r)
	}

	for fp, bucket := range buckets {
		if len(bucket) < 2 {
			delete(buckets, fp)
			delete(first, fp)
		}
	}
	return buckets, first, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
