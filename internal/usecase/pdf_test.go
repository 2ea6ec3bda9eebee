package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"
	"resume-builder/internal/usecase"
)

// fakePrinter records the HTML it receives and returns a minimal PDF.
type fakePrinter struct {
	mu    sync.Mutex
	calls []string
	out   []byte
	err   error
}

func (f *fakePrinter) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, html)
	if f.err != nil {
		return nil, f.err
	}
	if f.out != nil {
		return f.out, nil
	}
	return []byte("%PDF-1.4\n%fake\n"), nil
}

func (f *fakePrinter) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

type recordedExport struct {
	path string
	ok   bool
}

type fakeMetrics struct {
	mu      sync.Mutex
	exports []recordedExport
	renders []string
}

func (m *fakeMetrics) RecordExport(path string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports = append(m.exports, recordedExport{path: path, ok: err == nil})
}

func (m *fakeMetrics) RecordRender(variant string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders = append(m.renders, variant)
}

func newExporter(t *testing.T, cfg usecase.ExporterConfig) (*usecase.Exporter, *usecase.ResumeService, *fakePrinter, *fakeMetrics) {
	t.Helper()
	svc, _ := newService(t)
	r, err := render.NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	p := &fakePrinter{}
	m := &fakeMetrics{}
	return usecase.NewExporter(svc, r, p, cfg, m, quietLogger()), svc, p, m
}

func TestExportOwned_EmptyResume(t *testing.T) {
	exp, svc, p, m := newExporter(t, usecase.ExporterConfig{})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "My Resume 2024"})

	out, err := exp.ExportOwned(ctx, "u1", r.ID)
	if err != nil {
		t.Fatalf("ExportOwned() error = %v", err)
	}
	if len(out.PDF) == 0 || !strings.HasPrefix(string(out.PDF), "%PDF") {
		t.Errorf("PDF = %q", out.PDF)
	}
	if out.Filename != "My_Resume_2024.pdf" {
		t.Errorf("Filename = %q", out.Filename)
	}
	if got := out.ContentDisposition(); got != `attachment; filename="My_Resume_2024.pdf"` {
		t.Errorf("ContentDisposition() = %q", got)
	}
	if !strings.Contains(p.last(), `class="resume modern"`) {
		t.Error("modern layout not used for default template")
	}
	if len(m.exports) != 1 || m.exports[0] != (recordedExport{path: usecase.PathOwned, ok: true}) {
		t.Errorf("metrics = %+v", m.exports)
	}
}

func TestExportOwned_UsesStoredTemplate(t *testing.T) {
	exp, svc, p, _ := newExporter(t, usecase.ExporterConfig{})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "CV", Template: "classic"})

	if _, err := exp.ExportOwned(ctx, "u1", r.ID); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.last(), `class="resume classic"`) {
		t.Error("classic layout not used")
	}
}

func TestExportOwned_Errors(t *testing.T) {
	exp, svc, p, _ := newExporter(t, usecase.ExporterConfig{})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "CV"})

	if _, err := exp.ExportOwned(ctx, "u2", r.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("other owner error = %v", err)
	}
	if len(p.calls) != 0 {
		t.Error("print engine invoked for forbidden export")
	}

	p.err = errors.New("chrome exploded")
	if _, err := exp.ExportOwned(ctx, "u1", r.ID); err == nil {
		t.Error("print failure not reported")
	}

	p.err = nil
	p.out = []byte("<html>not a pdf</html>")
	if _, err := exp.ExportOwned(ctx, "u1", r.ID); err == nil {
		t.Error("non-PDF output accepted")
	}
}

func TestExportPublic(t *testing.T) {
	exp, svc, _, m := newExporter(t, usecase.ExporterConfig{})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "CV"})

	if _, err := exp.ExportPublic(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown public id error = %v", err)
	}
	pid, _ := svc.Share(ctx, "u1", r.ID)
	out, err := exp.ExportPublic(ctx, pid)
	if err != nil {
		t.Fatalf("ExportPublic() error = %v", err)
	}
	if out.Filename != "CV.pdf" {
		t.Errorf("Filename = %q", out.Filename)
	}
	if m.exports[len(m.exports)-1].path != usecase.PathPublic {
		t.Errorf("metrics path = %q", m.exports[len(m.exports)-1].path)
	}
}

func TestExportHTML(t *testing.T) {
	exp, svc, p, _ := newExporter(t, usecase.ExporterConfig{})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "CV"})

	if _, err := exp.ExportHTML(ctx, "u1", r.ID, "  "); !errors.Is(err, domain.ErrHTMLRequired) {
		t.Errorf("empty html error = %v, want ErrHTMLRequired", err)
	}
	if _, err := exp.ExportHTML(ctx, "u2", r.ID, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("ownership must be checked before html: %v", err)
	}
	if len(p.calls) != 0 {
		t.Fatal("print engine invoked for rejected request")
	}

	html := `<html><body><h1>Client</h1><script>alert(1)</script></body></html>`
	if _, err := exp.ExportHTML(ctx, "u1", r.ID, html); err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	if p.last() != html {
		t.Error("client html not passed through verbatim")
	}
}

func TestExportHTML_Sanitized(t *testing.T) {
	exp, svc, p, _ := newExporter(t, usecase.ExporterConfig{SanitizeClientHTML: true})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "CV"})

	html := `<html><head><style>h1{color:red}</style></head><body><h1 class="name" onclick="x()">Client</h1><script>alert(1)</script></body></html>`
	if _, err := exp.ExportHTML(ctx, "u1", r.ID, html); err != nil {
		t.Fatal(err)
	}
	got := p.last()
	for _, bad := range []string{"<script", "alert(1)", "onclick"} {
		if strings.Contains(got, bad) {
			t.Errorf("sanitized html still contains %q: %s", bad, got)
		}
	}
	for _, keep := range []string{"h1{color:red}", `class="name"`, "Client"} {
		if !strings.Contains(got, keep) {
			t.Errorf("sanitized html lost %q: %s", keep, got)
		}
	}
}

func TestPreview_TemplateOverride(t *testing.T) {
	exp, svc, _, m := newExporter(t, usecase.ExporterConfig{})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "CV"})

	out, err := exp.Preview(ctx, "u1", r.ID, "minimal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `class="resume minimal"`) {
		t.Error("override template not used")
	}
	if len(m.renders) != 1 || m.renders[0] != "minimal" {
		t.Errorf("renders = %v", m.renders)
	}
}

func TestExporter_LaunchLimitHonoursContext(t *testing.T) {
	exp, svc, _, _ := newExporter(t, usecase.ExporterConfig{LaunchesPerMinute: 1})
	ctx := context.Background()
	r, _ := svc.Create(ctx, "u1", usecase.CreateInput{Title: "CV"})

	if _, err := exp.ExportOwned(ctx, "u1", r.ID); err != nil {
		t.Fatalf("first export error = %v", err)
	}
	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if _, err := exp.ExportOwned(short, "u1", r.ID); err == nil {
		t.Fatal("second export inside the same minute should wait and time out")
	}
}

func TestPDFFilename(t *testing.T) {
	tests := map[string]string{
		"My Resume":         "My_Resume.pdf",
		"  spaced   out\t ": "spaced_out.pdf",
		`Quote "me"`:        "Quote_me.pdf",
		"a/b\\c;d":          "abcd.pdf",
		"":                  "resume.pdf",
	}
	for in, want := range tests {
		if got := usecase.PDFFilename(in); got != want {
			t.Errorf("PDFFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
