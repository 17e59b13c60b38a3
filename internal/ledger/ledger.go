// Package ledger persists batch progress so an interrupted multi-video job
// can resume without reprocessing finished sources. The ledger is the only
// durable state in the core: a single JSON document updated after every
// source video and deleted on full batch completion.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const Filename = "batch_progress.json"

// Settings echoes the job configuration into the ledger so a resumed run
// can be sanity-checked against the original one.
type Settings struct {
	ClipDuration   float64 `json:"clip_duration"`
	Quality        string  `json:"quality"`
	SceneDetection bool    `json:"scene_detection"`
	NamingPattern  string  `json:"naming_pattern"`
}

// Document is the on-disk ledger format.
type Document struct {
	JobID           string    `json:"job_id"`
	ProcessedVideos []string  `json:"processed_videos"`
	Timestamp       time.Time `json:"timestamp"`
	Settings        Settings  `json:"settings"`
}

// Processed returns the processed filenames as a set.
func (d Document) Processed() map[string]struct{} {
	set := make(map[string]struct{}, len(d.ProcessedVideos))
	for _, name := range d.ProcessedVideos {
		set[name] = struct{}{}
	}
	return set
}

type Ledger struct {
	path string
	log  zerolog.Logger
}

func New(path string, log zerolog.Logger) *Ledger {
	return &Ledger{path: path, log: log.With().Str("component", "ledger").Logger()}
}

func (l *Ledger) Path() string { return l.path }

// NewDocument starts a fresh ledger document for a new batch job.
func NewDocument(settings Settings) Document {
	return Document{
		JobID:    uuid.NewString(),
		Settings: settings,
	}
}

// Load reads the ledger from disk. A missing or unreadable ledger is not an
// error: resuming from a corrupt ledger degrades to a fresh start.
func (l *Ledger) Load() Document {
	b, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.log.Warn().Err(err).Str("path", l.path).Msg("ledger unreadable, starting fresh")
		}
		return Document{}
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		l.log.Warn().Err(err).Str("path", l.path).Msg("ledger corrupt, starting fresh")
		return Document{}
	}
	return doc
}

// Save writes the ledger atomically (temp file then rename) so a crash
// mid-write never clobbers the previous valid ledger.
func (l *Ledger) Save(doc Document) error {
	doc.Timestamp = time.Now().UTC()
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, Filename+".tmp-*")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger temp file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// Delete removes the ledger. Called only on full successful completion.
func (l *Ledger) Delete() error {
	err := os.Remove(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete ledger: %w", err)
	}
	return nil
}
