package hivetrace_test

import (
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/require"

	hivetrace "github.com/hivetrace/hivetrace-go"
	"github.com/hivetrace/hivetrace-go/stacktrace"
)

var logPayloads = flag.Bool("logPayloads", false,
	"if set, payloads received by the test ingestion server will be pretty-printed to the screen")

// ingestionServer is a transport stub that records every report it receives.
type ingestionServer struct {
	*httptest.Server

	mu      sync.Mutex
	raw     [][]byte
	reports []hivetrace.Report
}

func newIngestionServer(t *testing.T) *ingestionServer {
	t.Helper()
	s := &ingestionServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var report hivetrace.Report
		require.NoError(t, json.Unmarshal(body, &report))
		if *logPayloads {
			pretty.Log("report:", report)
		}

		s.mu.Lock()
		s.raw = append(s.raw, body)
		s.reports = append(s.reports, report)
		s.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *ingestionServer) received() []hivetrace.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hivetrace.Report(nil), s.reports...)
}

func (s *ingestionServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// newTestNotifier returns a notifier with deterministic probes and an API
// key already configured.
func newTestNotifier(endpoint string) *hivetrace.Notifier {
	return hivetrace.NewNotifier(hivetrace.Configuration{
		APIKey:        "test-api-key",
		Endpoint:      endpoint,
		AppVersion:    "0.0.0-test",
		Hostname:      "test-host",
		SourceLocator: stacktrace.NopLocator{},
	})
}
