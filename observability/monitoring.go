package observability

import (
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Cause tells which trigger destroyed a message.
type Cause string

const (
	CauseTimeout Cause = "timeout"
	CauseRead    Cause = "read"
	CauseManual  Cause = "manual"
)

// Stats is a point in time view of the engine, exposed on the debug server.
type Stats struct {
	Uptime             string  `json:"uptime"`
	MessagesSent       uint64  `json:"messages_sent"`
	MessagesDelivered  uint64  `json:"messages_delivered"`
	DecryptFailures    uint64  `json:"decrypt_failures"`
	DestroyedByTimeout uint64  `json:"destroyed_by_timeout"`
	DestroyedByRead    uint64  `json:"destroyed_by_read"`
	DestroyedManually  uint64  `json:"destroyed_manually"`
	DestructionErrors  uint64  `json:"destruction_errors"`
	ThreatRecords      uint64  `json:"threat_records"`
	WorkerRestarts     uint64  `json:"worker_restarts"`
	ArmedMessages      int     `json:"armed_messages"`
	AllocMemMb         uint64  `json:"alloc_mem_mb"`
	NumGC              uint32  `json:"num_gc"`
	Goroutines         int     `json:"goroutines"`
	RssMb              uint64  `json:"rss_mb"`
	CPUPercent         float64 `json:"cpu_percent"`
}

// Metrics holds the engine counters. Every method accepts a nil receiver
// so components can run without monitoring in tests.
type Metrics struct {
	MessagesSent       uint64
	MessagesDelivered  uint64
	DecryptFailures    uint64
	DestroyedByTimeout uint64
	DestroyedByRead    uint64
	DestroyedManually  uint64
	DestructionErrors  uint64
	ThreatRecords      uint64
	WorkerRestarts     uint64

	mu      sync.RWMutex
	armed   func() int
	started time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{started: time.Now()}
}

// WatchArmed registers the source of the armed message gauge.
func (m *Metrics) WatchArmed(armed func() int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = armed
}

func (m *Metrics) IncrSent() {
	if m != nil {
		atomic.AddUint64(&m.MessagesSent, 1)
	}
}

func (m *Metrics) IncrDelivered() {
	if m != nil {
		atomic.AddUint64(&m.MessagesDelivered, 1)
	}
}

func (m *Metrics) IncrDecryptFailures() {
	if m != nil {
		atomic.AddUint64(&m.DecryptFailures, 1)
	}
}

func (m *Metrics) IncrDestroyed(cause Cause) {
	if m == nil {
		return
	}
	switch cause {
	case CauseTimeout:
		atomic.AddUint64(&m.DestroyedByTimeout, 1)
	case CauseRead:
		atomic.AddUint64(&m.DestroyedByRead, 1)
	case CauseManual:
		atomic.AddUint64(&m.DestroyedManually, 1)
	}
}

func (m *Metrics) IncrDestructionErrors() {
	if m != nil {
		atomic.AddUint64(&m.DestructionErrors, 1)
	}
}

func (m *Metrics) IncrThreatRecords() {
	if m != nil {
		atomic.AddUint64(&m.ThreatRecords, 1)
	}
}

func (m *Metrics) IncrWorkerRestarts() {
	if m != nil {
		atomic.AddUint64(&m.WorkerRestarts, 1)
	}
}

// Snapshot reads the counters and samples the process with gopsutil.
func (m *Metrics) Snapshot() Stats {
	if m == nil {
		return Stats{}
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := Stats{
		Uptime:             time.Since(m.started).Round(time.Second).String(),
		MessagesSent:       atomic.LoadUint64(&m.MessagesSent),
		MessagesDelivered:  atomic.LoadUint64(&m.MessagesDelivered),
		DecryptFailures:    atomic.LoadUint64(&m.DecryptFailures),
		DestroyedByTimeout: atomic.LoadUint64(&m.DestroyedByTimeout),
		DestroyedByRead:    atomic.LoadUint64(&m.DestroyedByRead),
		DestroyedManually:  atomic.LoadUint64(&m.DestroyedManually),
		DestructionErrors:  atomic.LoadUint64(&m.DestructionErrors),
		ThreatRecords:      atomic.LoadUint64(&m.ThreatRecords),
		WorkerRestarts:     atomic.LoadUint64(&m.WorkerRestarts),
		AllocMemMb:         mem.Alloc / 1024 / 1024,
		NumGC:              mem.NumGC,
		Goroutines:         runtime.NumGoroutine(),
	}

	m.mu.RLock()
	if m.armed != nil {
		stats.ArmedMessages = m.armed()
	}
	m.mu.RUnlock()

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := p.MemoryInfo(); err == nil {
			stats.RssMb = info.RSS / 1024 / 1024
		}
		if cpu, err := p.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
	}
	return stats
}
