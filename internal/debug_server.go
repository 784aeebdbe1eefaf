package internal

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"tactical-link/contract"
	"tactical-link/errors"
	"tactical-link/infrastructure/storage"
	"tactical-link/observability"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
)

//go:embed inspect.html
var templatesFS embed.FS

const (
	defaultPrefix = storage.MessagePrefix
	maxRows       = 500
)

// Prefixes that can be browsed. Identity rows only show a key fingerprint.
var inspectablePrefixes = []string{
	storage.MessagePrefix,
	storage.PendingPrefix,
	storage.SentPrefix,
	storage.ArmedPrefix,
	storage.PurgePrefix,
	storage.ThreatPrefix,
	storage.IdentityPrefix,
}

var _ contract.Worker = (*DebugServer)(nil)

type InspectRow struct {
	Key       string `json:"key"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	EntityID  string `json:"entity_id"`
	Owner     string `json:"owner"`
	Detail    string `json:"detail"`
	Score     string `json:"score"`
}

type StatsProvider func() observability.Stats

type PageData struct {
	Prefix   string
	Prefixes []string
	Items    []InspectRow
	Stats    observability.Stats
}

// DebugServer is a read-only HTTP view over the store and the engine
// counters. It never exposes message content or key material.
type DebugServer struct {
	log   *slog.Logger
	db    *badger.DB
	port  int
	stats StatsProvider
	tmpl  *template.Template
}

func NewDebugServer(log *slog.Logger, db *badger.DB, port int, stats StatsProvider) *DebugServer {
	return &DebugServer{
		log:   log,
		db:    db,
		port:  port,
		stats: stats,
		tmpl:  template.Must(template.ParseFS(templatesFS, "inspect.html")),
	}
}

func (s *DebugServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/inspect", s.handleInspect).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/records", s.handleRecords).Methods(http.MethodGet)
	return r
}

// Run serves until ctx is done.
func (s *DebugServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Debug server listening", "url", fmt.Sprintf("http://localhost:%d/inspect", s.port))
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *DebugServer) handleInspect(w http.ResponseWriter, r *http.Request) {
	prefix, err := prefixOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := s.scan(prefix)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	data := PageData{Prefix: prefix, Prefixes: inspectablePrefixes, Items: rows}
	if s.stats != nil {
		data.Stats = s.stats()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Warn("Unable to render inspect page", "error", err)
	}
}

func (s *DebugServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	var stats observability.Stats
	if s.stats != nil {
		stats = s.stats()
	}
	writeJSON(w, stats)
}

func (s *DebugServer) handleRecords(w http.ResponseWriter, r *http.Request) {
	prefix, err := prefixOf(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := s.scan(prefix)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, rows)
}

func (s *DebugServer) scan(prefix string) ([]InspectRow, error) {
	rows := []InspectRow{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)) && len(rows) < maxRows; it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				rows = append(rows, StorageMapper(string(item.Key()), val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return rows, nil
}

// StorageMapper turns a badger entry into a display row.
func StorageMapper(key string, val []byte) InspectRow {
	view := storage.Describe(key, val)
	row := InspectRow{
		Key:       view.Key,
		Type:      view.Type,
		Timestamp: "--:--:--",
		EntityID:  view.EntityID,
		Owner:     view.Owner,
		Detail:    view.Detail,
		Score:     "-",
	}
	if !view.Timestamp.IsZero() {
		row.Timestamp = view.Timestamp.Format(time.DateTime)
	}
	if len(row.EntityID) > 8 {
		row.EntityID = row.EntityID[:8]
	}
	if view.Score != nil {
		row.Score = strconv.FormatFloat(*view.Score, 'f', 2, 64)
	}
	return row
}

func prefixOf(r *http.Request) (string, error) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		return defaultPrefix, nil
	}
	if !slices.Contains(inspectablePrefixes, prefix) {
		return "", fmt.Errorf("unknown prefix %q", prefix)
	}
	return prefix, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
