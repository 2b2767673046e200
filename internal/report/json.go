package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lumipallolabs/dupedive/internal/core"
	"github.com/lumipallolabs/dupedive/internal/model"
)

// Document is the machine-readable form of a scan result
type Document struct {
	Root       string    `json:"root"`
	Algorithm  string    `json:"algorithm"`
	ScannedAt  time.Time `json:"scanned_at"`
	DurationMS int64     `json:"duration_ms"`
	Files      int       `json:"files"`
	Candidates int       `json:"candidates"`
	Summary    Summary   `json:"summary"`
	Groups     []Group   `json:"groups"`
	Skipped    []Skipped `json:"skipped,omitempty"`
	Change     *Change   `json:"since_last_scan,omitempty"`
}

type Summary struct {
	Groups         int    `json:"groups"`
	DuplicateFiles int    `json:"duplicate_files"`
	WastedBytes    int64  `json:"wasted_bytes"`
	Wasted         string `json:"wasted"`
}

type Group struct {
	Fingerprint string   `json:"fingerprint"`
	Size        int64    `json:"size"`
	WastedBytes int64    `json:"wasted_bytes"`
	Paths       []string `json:"paths"`
}

type Skipped struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type Change struct {
	Since          time.Time `json:"since"`
	Groups         int       `json:"groups"`
	DuplicateFiles int       `json:"duplicate_files"`
	WastedBytes    int64     `json:"wasted_bytes"`
}

// Build converts a scan result
func Build(result *core.ScanResult, scannedAt time.Time) Document {
	doc := Document{
		Root:       result.Root,
		Algorithm:  result.Algorithm,
		ScannedAt:  scannedAt,
		DurationMS: result.Duration.Milliseconds(),
		Files:      result.Files,
		Candidates: result.Candidates,
		Summary: Summary{
			Groups:         result.Stats.GroupCount,
			DuplicateFiles: result.Stats.DuplicateFileCount,
			WastedBytes:    result.Stats.WastedBytes,
			Wasted:         model.FormatBytes(result.Stats.WastedBytes),
		},
		Groups: make([]Group, 0, len(result.Groups)),
	}
	for _, g := range result.Groups {
		doc.Groups = append(doc.Groups, Group{
			Fingerprint: g.Fingerprint,
			Size:        g.Size,
			WastedBytes: g.WastedSpace(),
			Paths:       g.Paths(),
		})
	}
	for _, s := range result.Skipped {
		doc.Skipped = append(doc.Skipped, Skipped{Path: s.Path, Error: s.Err.Error()})
	}
	if d := result.Delta; d != nil {
		doc.Change = &Change{
			Since:          d.Since,
			Groups:         d.Groups,
			DuplicateFiles: d.Duplicates,
			WastedBytes:    d.Bytes,
		}
	}
	return doc
}

// EncodeJSON writes doc as indented JSON
func EncodeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteJSON writes the report to path, or to stdout when path is "-"
func WriteJSON(path string, stdout io.Writer, doc Document) error {
	if path == "-" {
		return EncodeJSON(stdout, doc)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := EncodeJSON(file, doc); err != nil {
		file.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	return file.Close()
}
