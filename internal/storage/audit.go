package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/utec-cloud/incident-hub/internal/reports"
)

// auditEntry is one JSON line in the audit trail.
type auditEntry struct {
	Time          string `json:"time"`
	Event         string `json:"event"`
	TenantID      string `json:"tenant_id"`
	UUID          string `json:"uuid"`
	TipoIncidente string `json:"tipo_incidente,omitempty"`
	NivelUrgencia string `json:"nivel_urgencia,omitempty"`
	Estado        string `json:"estado,omitempty"`
}

// AuditLog appends report lifecycle events as JSON lines to date-organized
// files. Writes are queued on a channel and flushed by a single goroutine,
// so recording never blocks the request path.
type AuditLog struct {
	baseDir     string
	writeCh     chan auditEntry
	done        chan struct{}
	wg          sync.WaitGroup
	currentDate string
	out         *lumberjack.Logger
	mu          sync.Mutex
}

// NewAuditLog starts the background writer. bufferSize bounds the queue;
// entries beyond it are dropped with a warning rather than blocking.
func NewAuditLog(baseDir string, bufferSize int) *AuditLog {
	a := &AuditLog{
		baseDir: baseDir,
		writeCh: make(chan auditEntry, bufferSize),
		done:    make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writeLoop()
	return a
}

// Record queues one event for the report. Implements reports.AuditTrail.
func (a *AuditLog) Record(event string, r reports.Report) {
	entry := auditEntry{
		Time:          time.Now().UTC().Format(time.RFC3339),
		Event:         event,
		TenantID:      r.TenantID,
		UUID:          r.UUID,
		TipoIncidente: r.TipoIncidente,
		NivelUrgencia: r.NivelUrgencia,
		Estado:        r.Estado,
	}
	select {
	case a.writeCh <- entry:
	case <-a.done:
	default:
		slog.Warn("audit buffer full, dropping entry", "event", event, "uuid", r.UUID)
	}
}

// Close flushes queued entries and closes the underlying file.
func (a *AuditLog) Close() error {
	close(a.done)
	a.wg.Wait()

	// Drain whatever was queued after the loop stopped.
	for {
		select {
		case entry := <-a.writeCh:
			a.writeEntry(entry)
		default:
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.out != nil {
				return a.out.Close()
			}
			return nil
		}
	}
}

func (a *AuditLog) writeLoop() {
	defer a.wg.Done()
	for {
		select {
		case entry := <-a.writeCh:
			a.writeEntry(entry)
		case <-a.done:
			return
		}
	}
}

func (a *AuditLog) writeEntry(entry auditEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		slog.Error("failed to marshal audit entry", "error", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	date := time.Now().UTC().Format("2006-01-02")
	if a.out == nil || date != a.currentDate {
		a.rotateForDate(date)
	}
	if a.out == nil {
		return
	}
	if _, err := a.out.Write(append(data, '\n')); err != nil {
		slog.Error("failed to write audit entry", "error", err)
	}
}

func (a *AuditLog) rotateForDate(date string) {
	if a.out != nil {
		_ = a.out.Close()
	}
	if err := os.MkdirAll(a.baseDir, 0o755); err != nil {
		slog.Error("failed to create audit directory", "dir", a.baseDir, "error", err)
		a.out = nil
		return
	}
	filename := filepath.Join(a.baseDir, fmt.Sprintf("reportes-%s.jsonl", date))
	a.out = &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    50,
		MaxBackups: 30,
		MaxAge:     90,
		LocalTime:  false,
	}
	a.currentDate = date
	slog.Info("opened audit file", "file", filename)
}
