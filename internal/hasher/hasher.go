package hasher

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"lukechampine.com/blake3"
)

// ChunkSize is the read size used while streaming file content into a digest
const ChunkSize = 8 * 1024

// DefaultAlgorithm is used when no algorithm is configured
const DefaultAlgorithm = "md5"

// ErrUnsupportedAlgorithm is returned by New for unknown algorithm names
var ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

var constructors = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"blake3": func() hash.Hash { return blake3.New(32, nil) },
	"xxhash": func() hash.Hash { return xxhash.New() },
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, ChunkSize)
		return &buf
	},
}

// Hasher computes content fingerprints with a fixed algorithm.
// It holds no per-file state and is safe for concurrent use.
type Hasher struct {
	algo    string
	newHash func() hash.Hash
}

// New returns a Hasher for the named algorithm
func New(algo string) (*Hasher, error) {
	if algo == "" {
		algo = DefaultAlgorithm
	}
	ctor, ok := constructors[algo]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algo)
	}
	return &Hasher{algo: algo, newHash: ctor}, nil
}

// Default returns a Hasher using DefaultAlgorithm
func Default() *Hasher {
	h, _ := New(DefaultAlgorithm)
	return h
}

// Algorithms returns the supported algorithm names, sorted
func Algorithms() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Algorithm returns the name of the digest in use
func (h *Hasher) Algorithm() string {
	return h.algo
}

// HashFile returns the lowercase hex digest of the file at path.
// Open and read failures are returned as-is; there is no partial result.
func (h *Hasher) HashFile(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.HashReader(ctx, file)
}

// HashReader streams r into the digest in ChunkSize pieces, checking ctx between chunks
func (h *Hasher) HashReader(ctx context.Context, r io.Reader) (string, error) {
	digest := h.newHash()

	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)
	buf := *bufPtr

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			// hash.Hash.Write never returns an error
			digest.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", readErr
		}
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
