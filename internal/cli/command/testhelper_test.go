package command

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/clockschedule-go/internal/infra/shutdown"
)

// mockServer records login requests and answers with a configurable reply.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     any
	requests []*http.Request
	bodies   []map[string]string
}

func newMockServer(t *testing.T, status int, body any) *mockServer {
	t.Helper()
	m := &mockServer{status: status, body: body}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/login" {
			http.NotFound(w, r)
			return
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)

		m.mu.Lock()
		m.requests = append(m.requests, r)
		m.bodies = append(m.bodies, creds)
		status, body := m.status, m.body
		m.mu.Unlock()

		jsonResponse(w, status, body)
	}))
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockServer) first() (*http.Request, map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[0], m.bodies[0]
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// testEnv is an isolated home with a config file and a state directory.
type testEnv struct {
	t          *testing.T
	configPath string
	stateDir   string
}

// newTestEnv writes a config file pointing at serverURL. extra entries are
// merged into the file.
func newTestEnv(t *testing.T, serverURL string, extra map[string]any) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"CLOCKSCHEDULE_API_BASE_URL", "CLOCKSCHEDULE_CONFIG", "CLOCKSCHEDULE_OUTPUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	env := &testEnv{
		t:          t,
		configPath: filepath.Join(home, "config.yaml"),
		stateDir:   filepath.Join(home, "state"),
	}

	doc := map[string]any{
		"api_base_url":   serverURL,
		"login_interval": "0",
		"store":          map[string]any{"backend": "file", "dir": env.stateDir},
	}
	for k, v := range extra {
		doc[k] = v
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(env.configPath, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// run executes the app with the given stdin and arguments after the global
// --config flag. Shutdown hooks run before it returns.
func (e *testEnv) run(stdin string, args ...string) (string, string, error) {
	e.t.Helper()

	h := shutdown.NewHandler(5 * time.Second)
	app := App(h)

	var stdout, stderr bytes.Buffer
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	full := append([]string{"clockschedule-cli", "--config", e.configPath}, args...)
	err := app.RunContext(ctx, full)
	if serr := h.Shutdown(); serr != nil {
		e.t.Errorf("shutdown hooks: %v", serr)
	}
	return stdout.String(), stderr.String(), err
}
