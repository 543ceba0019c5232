package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RemoteCall records one request a RemoteStub received.
type RemoteCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// RemoteStub stands in for the remote restaurant API. Tests register a
// response per "METHOD pathPrefix" route and read back the recorded call
// sequence afterwards.
type RemoteStub struct {
	mu     sync.Mutex
	calls  []RemoteCall
	routes map[string]stubResponse

	// Server is the backing test server; its URL goes into the kiosk config.
	Server *httptest.Server
}

type stubResponse struct {
	status int
	body   string
}

// NewRemoteStub starts a recording stub of the remote API. The server is
// closed automatically when the test finishes.
func NewRemoteStub(t *testing.T) *RemoteStub {
	t.Helper()
	s := &RemoteStub{routes: make(map[string]stubResponse)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Server.Close)
	return s
}

func (s *RemoteStub) handle(w http.ResponseWriter, r *http.Request) {
	call := RemoteCall{Method: r.Method, Path: r.URL.Path}
	if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.Body)
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	var resp stubResponse
	found := false
	for key, candidate := range s.routes {
		parts := strings.SplitN(key, " ", 2)
		if parts[0] == r.Method && strings.HasPrefix(r.URL.Path, parts[1]) {
			resp, found = candidate, true
			break
		}
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !found {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"message":"no route for %s %s"}`, r.Method, r.URL.Path)
		return
	}
	w.WriteHeader(resp.status)
	fmt.Fprint(w, resp.body)
}

// On registers a JSON response for a method and path prefix.
func (s *RemoteStub) On(method, pathPrefix string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+pathPrefix] = stubResponse{status: status, body: body}
}

// Recorded returns a copy of the call log.
func (s *RemoteStub) Recorded() []RemoteCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RemoteCall(nil), s.calls...)
}

// CallsTo filters the recorded calls by method and exact path.
func (s *RemoteStub) CallsTo(method, path string) []RemoteCall {
	var matched []RemoteCall
	for _, call := range s.Recorded() {
		if call.Method == method && call.Path == path {
			matched = append(matched, call)
		}
	}
	return matched
}
