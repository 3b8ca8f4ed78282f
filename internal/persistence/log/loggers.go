// Package log persists a durable, append-only audit trail of tick
// finalization outside the opaque WorldState blob the Store holds. The
// in-memory TickLog on WorldState is capped at 50 entries per the data
// model; this writer keeps the full history on disk, hour-bucketed and
// zstd-compressed, mirroring the teacher's JSONL-per-hour event log shape.
package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"github.com/ncruces/go-strftime"

	"govsim.ai/internal/sim/world/kernel/model"
)

// jsonlZstdWriter appends one JSON object per line to an hour-bucketed,
// zstd-compressed file, rotating to a new file whenever the wall-clock
// hour changes. Rotation is an ambient log-management concern, not part
// of the deterministic core, so it is the one place in this package
// allowed to read the wall clock.
type jsonlZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func newJSONLZstdWriter(baseDir, prefix string) *jsonlZstdWriter {
	return &jsonlZstdWriter{baseDir: baseDir, prefix: prefix}
}

func (w *jsonlZstdWriter) write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *jsonlZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *jsonlZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *jsonlZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

func (w *jsonlZstdWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// auditRecord is one line of the durable audit trail: the tick's log
// entry plus a human-readable rendering of the two figures operators
// scan for first when tailing the file.
type auditRecord struct {
	model.TickLogEntry
	ServerID    string `json:"server_id"`
	WrittenAt   string `json:"written_at"`
	GDPHuman    string `json:"gdp_human"`
	DeadlineISO string `json:"tick_deadline_iso"`
}

// AuditLogger writes one auditRecord per finalized tick.
type AuditLogger struct {
	serverID string
	w        *jsonlZstdWriter
}

// NewAuditLogger creates a per-game logger rooted at <dataDir>/audit/<serverID>.
func NewAuditLogger(dataDir, serverID string) *AuditLogger {
	return &AuditLogger{
		serverID: serverID,
		w:        newJSONLZstdWriter(filepath.Join(dataDir, "audit", serverID), "tick"),
	}
}

// WriteTick records entry, along with gdp (for the human-readable figure)
// and the next tick's deadline (for the ISO-ish timestamp).
func (l *AuditLogger) WriteTick(entry model.TickLogEntry, gdp float64, tickDeadlineUnix int64) error {
	return l.w.write(auditRecord{
		TickLogEntry: entry,
		ServerID:     l.serverID,
		WrittenAt:    time.Now().UTC().Format(time.RFC3339),
		GDPHuman:     humanize.Commaf(gdp),
		DeadlineISO:  strftime.Format("%Y-%m-%dT%H:%M:%SZ", time.Unix(tickDeadlineUnix, 0).UTC()),
	})
}

func (l *AuditLogger) Close() error { return l.w.close() }
