// Package storage persists parsed articles as JSON documents.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pubxml/internal/models"
)

// ErrNilArticle is returned when a nil article is saved.
var ErrNilArticle = errors.New("article is nil")

// Stats tracks writer activity.
type Stats struct {
	StartTime  time.Time
	LastUpdate time.Time
	Saved      int
	Failed     int
	Skipped    int
}

// Writer stores articles under an output directory, one JSON file per
// article keyed by uid, or appended to a single JSONL stream.
type Writer struct {
	outputDir string
	format    string
	pretty    bool
	stats     Stats
}

// NewWriter creates a writer. Format is "json" (one file per article)
// or "jsonl" (single stream file).
func NewWriter(outputDir, format string, pretty bool) *Writer {
	return &Writer{
		outputDir: outputDir,
		format:    format,
		pretty:    pretty,
		stats:     Stats{StartTime: time.Now(), LastUpdate: time.Now()},
	}
}

// Save persists one article. In json mode an existing file for the
// same uid is left untouched and counted as skipped; writes go through
// a temp file and atomic rename.
func (w *Writer) Save(article *models.Article) error {
	if article == nil {
		w.stats.Failed++

		return ErrNilArticle
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		w.stats.Failed++

		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if w.format == "jsonl" {
		return w.appendStream(article)
	}

	filename := filepath.Join(w.outputDir, article.UID+".json")

	if _, err := os.Stat(filename); err == nil {
		w.stats.Skipped++

		return nil
	}

	tempFile := filename + ".tmp"

	if err := w.writeJSON(tempFile, article); err != nil {
		os.Remove(tempFile)
		w.stats.Failed++

		return fmt.Errorf("failed to write JSON: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		w.stats.Failed++

		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	w.stats.Saved++
	w.stats.LastUpdate = time.Now()

	return nil
}

// StreamPath returns the path of the JSONL stream file.
func (w *Writer) StreamPath() string {
	return filepath.Join(w.outputDir, "articles.jsonl")
}

func (w *Writer) appendStream(article *models.Article) error {
	f, err := os.OpenFile(w.StreamPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		w.stats.Failed++

		return fmt.Errorf("failed to open stream file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(article); err != nil {
		w.stats.Failed++

		return fmt.Errorf("failed to encode article: %w", err)
	}

	w.stats.Saved++
	w.stats.LastUpdate = time.Now()

	return nil
}

func (w *Writer) writeJSON(path string, article *models.Article) error {
	data, err := w.marshal(article)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (w *Writer) marshal(article *models.Article) ([]byte, error) {
	if w.pretty {
		return json.MarshalIndent(article, "", "  ")
	}

	return json.Marshal(article)
}

// Stats returns a copy of the writer statistics.
func (w *Writer) Stats() Stats {
	return w.stats
}
