package internal

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"tactical-link/domain"
	"tactical-link/infrastructure/storage"
	"tactical-link/observability"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func newDebugServer(t *testing.T) (*DebugServer, storage.MessageRepository) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	metrics := observability.NewMetrics()
	metrics.IncrSent()
	server := NewDebugServer(slog.Default(), db, 0, metrics.Snapshot)
	return server, storage.NewMessageRepository(db, slog.Default(), nil)
}

func TestDebugServer_Records(t *testing.T) {
	req := require.New(t)
	server, repo := newDebugServer(t)

	_, err := repo.Create(domain.Message{
		SenderID:      "alice",
		RecipientID:   "bob",
		Ciphertext:    []byte("opaque"),
		WrappedKey:    []byte("wrapped"),
		PlaintextEcho: []byte("rendezvous at dawn"),
		Length:        18,
		CreatedAt:     time.Now().UTC(),
		TTLSeconds:    30,
	})
	req.NoError(err)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/records?prefix=msg:", nil))
	req.Equal(http.StatusOK, recorder.Code)
	req.NotContains(recorder.Body.String(), "rendezvous")

	var rows []InspectRow
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &rows))
	req.Len(rows, 1)
	req.Equal("MESSAGE", rows[0].Type)
	req.Equal("alice", rows[0].Owner)
	req.Len(rows[0].EntityID, 8)
}

func TestDebugServer_RejectsUnknownPrefix(t *testing.T) {
	server, _ := newDebugServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/records?prefix=meta:", nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDebugServer_InspectPageAndStats(t *testing.T) {
	req := require.New(t)
	server, _ := newDebugServer(t)

	recorder := httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/inspect", nil))
	req.Equal(http.StatusOK, recorder.Code)
	req.Contains(recorder.Body.String(), "no records under msg:")

	recorder = httptest.NewRecorder()
	server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	req.Equal(http.StatusOK, recorder.Code)
	var stats observability.Stats
	req.NoError(json.Unmarshal(recorder.Body.Bytes(), &stats))
	req.Equal(uint64(1), stats.MessagesSent)
}
