package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

func labelsOf(m *dto.Metric) map[string]string {
	out := map[string]string{}
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestRecordExport_CountsByPathAndResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordExport("owned", nil, 1200*time.Millisecond)
	c.RecordExport("owned", nil, 800*time.Millisecond)
	c.RecordExport("html", errors.New("boom"), 0)

	mf := findFamily(t, reg, "resume_pdf_exports_total")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		l := labelsOf(m)
		got[l["path"]+"/"+l["result"]] = m.GetCounter().GetValue()
	}
	if got["owned/ok"] != 2 {
		t.Errorf("owned/ok = %v, want 2", got["owned/ok"])
	}
	if got["html/error"] != 1 {
		t.Errorf("html/error = %v, want 1", got["html/error"])
	}
}

func TestRecordExport_TimesOnlySuccess(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordExport("public", nil, 2*time.Second)
	c.RecordExport("public", errors.New("boom"), 5*time.Second)

	mf := findFamily(t, reg, "resume_pdf_duration_seconds")
	if len(mf.GetMetric()) != 1 {
		t.Fatalf("expected 1 series, got %d", len(mf.GetMetric()))
	}
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 1 || h.GetSampleSum() != 2 {
		t.Errorf("count=%d sum=%v, want 1 and 2", h.GetSampleCount(), h.GetSampleSum())
	}
}

func TestRecordRender(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRender("classic")
	c.RecordRender("classic")
	c.RecordRender("modern")

	mf := findFamily(t, reg, "resume_renders_total")
	got := map[string]float64{}
	for _, m := range mf.GetMetric() {
		got[labelsOf(m)["variant"]] = m.GetCounter().GetValue()
	}
	if got["classic"] != 2 || got["modern"] != 1 {
		t.Errorf("renders = %v", got)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRender("minimal")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `resume_renders_total{variant="minimal"} 1`) {
		t.Errorf("scrape output missing render counter:\n%s", body)
	}
}
