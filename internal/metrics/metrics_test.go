package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

func TestHandlerExposesBoardMetrics(t *testing.T) {
	m := New(func() int { return 3 })
	m.Ticks.Inc()
	m.SetStatus("lesson")
	m.SetStatus("break")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		"bellboard_ticks_total 1",
		"bellboard_ws_clients 3",
		`bellboard_status{kind="break"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if strings.Contains(out, `bellboard_status{kind="lesson"}`) {
		t.Error("stale status kind should be reset")
	}
}

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	m := New(nil)

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/api/materials/{lesson}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/materials/Fizik", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `bellboard_http_requests_total{method="GET",route="/api/materials/{lesson}",status="404"} 1`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("metrics output missing %q", want)
	}
}
