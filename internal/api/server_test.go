package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgallion1/docwheel/internal/config"
	"github.com/dgallion1/docwheel/internal/layout"
	"github.com/dgallion1/docwheel/internal/store"
	"github.com/dgallion1/docwheel/internal/wheel"
)

const testKey = "test-key"

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	ms := store.NewMemoryStore()
	ms.Write(ctx, "guide.md", "# Setup\n## Install\n## Configure\n# Usage\n")
	stats := store.Instrument(ms)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	view := wheel.New(wheel.Config{Store: stats, Options: layout.DefaultOptions(), Width: 400, Height: 400, Logger: log})
	if err := view.Open(ctx, "guide.md"); err != nil {
		t.Fatalf("open: %v", err)
	}
	srv := httptest.NewServer(NewServer(view, stats, log, config.Config{APIKey: testKey, Store: config.StoreFile}))
	t.Cleanup(srv.Close)
	return srv, ms
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+testKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, data
}

func state(t *testing.T, data []byte) viewState {
	t.Helper()
	var st viewState
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode state: %v (%s)", err, data)
	}
	return st
}

func TestHealth_NoAuth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/view")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/view", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", resp.StatusCode)
	}
}

func TestAuthFailureBody(t *testing.T) {
	srv, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/view/toggle", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("WWW-Authenticate"); got != `Bearer realm="docwheel"` {
		t.Errorf("expected bearer challenge, got %q", got)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json error, got %s", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "missing authorization" {
		t.Errorf("expected missing authorization, got %q", body["error"])
	}

	_, data := do(t, srv, http.MethodGet, "/api/view", "")
	if st := state(t, data); !st.Visible {
		t.Error("expected rejected toggle to leave the view visible")
	}
}

func TestGetView(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, srv, http.MethodGet, "/api/view", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	st := state(t, data)
	if st.Document != "guide.md" || !st.Visible || st.State != "idle" {
		t.Errorf("unexpected state: %+v", st)
	}
	if len(st.Frame.Sections) != 4 {
		t.Errorf("expected 4 sections, got %d", len(st.Frame.Sections))
	}
	if st.Selection != nil {
		t.Errorf("expected no selection, got %+v", st.Selection)
	}
}

func TestNavigateAndRename(t *testing.T) {
	srv, ms := newTestServer(t)

	_, data := do(t, srv, http.MethodPost, "/api/view/select-first", "")
	if st := state(t, data); st.Selection == nil || st.Selection.Title != "Setup" {
		t.Fatalf("expected Setup selected, got %s", data)
	}
	_, data = do(t, srv, http.MethodPost, "/api/view/find", `{"query":"conf"}`)
	if st := state(t, data); st.Selection == nil || st.Selection.Title != "Configure" {
		t.Fatalf("expected Configure selected, got %s", data)
	}

	resp, data := do(t, srv, http.MethodPost, "/api/view/rename", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	st := state(t, data)
	if st.State != "editing" || st.Session == nil || st.Session.Pending != "Configure" {
		t.Fatalf("expected rename session, got %s", data)
	}

	resp, data = do(t, srv, http.MethodPost, "/api/view/commit", `{"text":"Tune"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	if st := state(t, data); st.Selection == nil || st.Selection.Title != "Tune" {
		t.Errorf("expected Tune selected, got %s", data)
	}

	got, _ := ms.Read(context.Background(), "guide.md")
	if want := "# Setup\n## Install\n## Tune\n# Usage\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNavigate_UnknownDirection(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, srv, http.MethodPost, "/api/view/navigate/sideways", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	resp, data := do(t, srv, http.MethodPost, "/api/view/navigate/right", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if st := state(t, data); st.Selection == nil || st.Selection.Title != "Setup" {
		t.Errorf("expected first section selected, got %s", data)
	}
}

func TestEditErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/view/insert-child", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 with no selection, got %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodPost, "/api/view/cancel", "")
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 with no session, got %d", resp.StatusCode)
	}

	do(t, srv, http.MethodPost, "/api/view/select-first", "")
	do(t, srv, http.MethodPost, "/api/view/insert-sibling", "")
	resp, _ = do(t, srv, http.MethodPost, "/api/view/commit", `{"text":"a\nb"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for multi-line title, got %d", resp.StatusCode)
	}
	resp, _ = do(t, srv, http.MethodPost, "/api/view/commit", `{`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", resp.StatusCode)
	}
}

func TestClickRequiresCoordinates(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := do(t, srv, http.MethodPost, "/api/view/click", `{"x":10}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	resp, data := do(t, srv, http.MethodPost, "/api/view/click", `{"x":0,"y":0}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if st := state(t, data); st.Selection != nil {
		t.Errorf("expected a miss to leave nothing selected, got %+v", st.Selection)
	}
}

func TestResizeAndToggle(t *testing.T) {
	srv, _ := newTestServer(t)

	_, data := do(t, srv, http.MethodPost, "/api/view/resize", `{"width":200,"height":100}`)
	st := state(t, data)
	if st.Frame.Width != 200 || st.Frame.CenterY != 50 {
		t.Errorf("expected resized frame, got %+v", st.Frame)
	}

	_, data = do(t, srv, http.MethodPost, "/api/view/toggle", "")
	if st := state(t, data); st.Visible {
		t.Error("expected view hidden")
	}
	_, svg := do(t, srv, http.MethodGet, "/api/view.svg", "")
	if strings.Contains(string(svg), "<path") {
		t.Error("expected no paths while hidden")
	}
}

func TestSVG(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, data := do(t, srv, http.MethodGet, "/api/view.svg", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("expected svg content type, got %s", ct)
	}
	out := string(data)
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Errorf("expected a complete svg document, got %s", out)
	}
	if !strings.Contains(out, "Install") {
		t.Error("expected section labels in svg")
	}
}

func TestReload_PicksUpExternalChange(t *testing.T) {
	srv, ms := newTestServer(t)
	ms.Write(context.Background(), "guide.md", "# Only\n")

	resp, data := do(t, srv, http.MethodPost, "/api/view/reload", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if st := state(t, data); len(st.Frame.Sections) != 1 {
		t.Errorf("expected 1 section, got %d", len(st.Frame.Sections))
	}
}

func TestStoreStats(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/view/reload", "")

	resp, data := do(t, srv, http.MethodGet, "/api/stats/store", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Reads  store.StatsSnapshot `json:"reads"`
		Writes store.StatsSnapshot `json:"writes"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Reads.Count != 2 {
		t.Errorf("expected 2 reads (open and reload), got %d", body.Reads.Count)
	}
	if body.Writes.Count != 0 {
		t.Errorf("expected no writes, got %d", body.Writes.Count)
	}
}
