// Package journal persists every evaluation as a JSON line for later analysis.
package journal

import (
	"log/slog"
	"time"

	"dema/internal/evaluation"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Journal is an append-only sink of evaluation records.
type Journal interface {
	Append(r evaluation.Record)
	Close() error
}

// FileJournal writes records to a size-rotated, compressed JSONL file.
// Safe for concurrent use.
type FileJournal struct {
	file   *lumberjack.Logger
	logger *slog.Logger
}

// NewFileJournal opens a journal at file. maxSize is the rotation threshold in
// megabytes; maxBackups is the number of rotated files kept.
func NewFileJournal(file string, maxSize, maxBackups int) *FileJournal {
	lj := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	return &FileJournal{
		file:   lj,
		logger: slog.New(newLineHandler(lj)),
	}
}

func (j *FileJournal) Append(r evaluation.Record) {
	j.logger.Info("",
		"id", r.ID,
		"project", r.Project,
		"alternative", r.Alternative,
		"cost", r.Cost,
		"score", r.Score,
		"label", r.Label,
		"created_at", r.CreatedAt.Format(time.RFC3339Nano),
	)
}

// Close flushes and closes the current file.
func (j *FileJournal) Close() error {
	return j.file.Close()
}

// Nop discards records. Used when no journal file is configured.
type Nop struct{}

func (Nop) Append(evaluation.Record) {}
func (Nop) Close() error             { return nil }
