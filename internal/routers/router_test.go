package routers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coderoom/internal/api"
	"coderoom/internal/exec"
	"coderoom/internal/session"
	"coderoom/internal/utils"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := utils.NewLogger()
	reg := session.NewRegistry()
	orchestrator := exec.NewOrchestrator(logger, t.TempDir())
	coord := session.NewCoordinator(logger, reg, session.NewRouter(reg), orchestrator, nil)
	return New(api.NewHandlers(logger, coord, orchestrator))
}

func TestHealthz(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/healthz")
	if err != nil {
		t.Fatalf("healthz request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/languages")
	if err != nil {
		t.Fatalf("languages request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "cpp") {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := httptest.NewServer(newTestRouter(t))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
