package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/render"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"
)

// Export paths, also used as metric labels.
const (
	PathOwned  = "owned"
	PathPublic = "public"
	PathHTML   = "html"
)

var (
	pdfMagic    = []byte("%PDF")
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`["\\/;]`)
)

// Export is a finished PDF and the name it should be saved under.
type Export struct {
	Filename string
	PDF      []byte
}

// ContentDisposition returns the attachment header value for the export.
func (e *Export) ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", e.Filename)
}

type ExporterConfig struct {
	// SanitizeClientHTML strips scripts and event handlers from HTML sent by
	// clients before printing. Off means the HTML is printed verbatim.
	SanitizeClientHTML bool
	// LaunchesPerMinute bounds how often a browser may be started. Zero
	// disables the limit.
	LaunchesPerMinute int
}

// Exporter produces PDFs from stored resumes (server templates) or from
// HTML the client already rendered.
type Exporter struct {
	resumes  *ResumeService
	html     *render.Renderer
	pdf      PDFRenderer
	limiter  *rate.Limiter
	policy   *bluemonday.Policy
	metrics  Metrics
	log      *slog.Logger
	sanitize bool
}

func NewExporter(resumes *ResumeService, html *render.Renderer, pdf PDFRenderer, cfg ExporterConfig, m Metrics, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	if m == nil {
		m = nopMetrics{}
	}
	e := &Exporter{
		resumes:  resumes,
		html:     html,
		pdf:      pdf,
		metrics:  m,
		log:      log,
		sanitize: cfg.SanitizeClientHTML,
	}
	if cfg.LaunchesPerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(float64(cfg.LaunchesPerMinute)/60.0), cfg.LaunchesPerMinute)
	}
	if cfg.SanitizeClientHTML {
		e.policy = documentPolicy()
	}
	return e
}

// ExportOwned renders the owner's resume with its stored template.
func (e *Exporter) ExportOwned(ctx context.Context, ownerID string, id uuid.UUID) (*Export, error) {
	r, err := e.resumes.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return e.exportTemplated(ctx, PathOwned, r)
}

// ExportPublic renders a shared resume. No ownership check applies.
func (e *Exporter) ExportPublic(ctx context.Context, publicID string) (*Export, error) {
	r, err := e.resumes.GetPublic(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return e.exportTemplated(ctx, PathPublic, r)
}

// ExportHTML prints client-supplied HTML for a resume the caller owns.
func (e *Exporter) ExportHTML(ctx context.Context, ownerID string, id uuid.UUID, html string) (*Export, error) {
	r, err := e.resumes.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, domain.ErrHTMLRequired
	}
	if e.sanitize {
		html = e.policy.Sanitize(html)
	}
	return e.print(ctx, PathHTML, r, html)
}

// Preview returns the HTML for an owned resume. A non-empty template
// overrides the stored one.
func (e *Exporter) Preview(ctx context.Context, ownerID string, id uuid.UUID, template string) ([]byte, error) {
	r, err := e.resumes.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if template == "" {
		template = r.Template
	}
	return e.renderHTML(r, template)
}

// PreviewPublic returns the HTML page for a shared resume.
func (e *Exporter) PreviewPublic(ctx context.Context, publicID string) ([]byte, error) {
	r, err := e.resumes.GetPublic(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return e.renderHTML(r, r.Template)
}

func (e *Exporter) renderHTML(r *domain.Resume, template string) ([]byte, error) {
	v := render.ParseVariant(template)
	out, err := e.html.Render(r.Content.Normalize(), v)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordRender(v.String())
	return out, nil
}

func (e *Exporter) exportTemplated(ctx context.Context, path string, r *domain.Resume) (*Export, error) {
	html, err := e.renderHTML(r, r.Template)
	if err != nil {
		e.metrics.RecordExport(path, err, 0)
		return nil, err
	}
	return e.print(ctx, path, r, string(html))
}

func (e *Exporter) print(ctx context.Context, path string, r *domain.Resume, html string) (*Export, error) {
	start := time.Now()
	pdf, err := e.printPDF(ctx, html)
	e.metrics.RecordExport(path, err, time.Since(start))
	if err != nil {
		e.log.Error("pdf export failed",
			slog.String("path", path),
			slog.String("resume_id", r.ID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	e.log.Info("pdf exported",
		slog.String("path", path),
		slog.String("resume_id", r.ID.String()),
		slog.Int("bytes", len(pdf)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return &Export{Filename: PDFFilename(r.Title), PDF: pdf}, nil
}

func (e *Exporter) printPDF(ctx context.Context, html string) ([]byte, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for print slot: %w", err)
		}
	}
	pdf, err := e.pdf.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	// validate basic PDF signature
	if !bytes.HasPrefix(pdf, pdfMagic) {
		return nil, fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
	}
	return pdf, nil
}

// PDFFilename turns a title into "<title>.pdf" with whitespace runs replaced
// by underscores.
func PDFFilename(title string) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(title), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		name = "resume"
	}
	return name + ".pdf"
}

// documentPolicy keeps a full styled document but drops scripts, event
// handlers and external frames.
func documentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("html", "head", "body", "title", "meta", "style",
		"header", "footer", "section", "aside", "main", "article", "nav", "div", "span")
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("charset", "name", "content").OnElements("meta")
	p.AllowAttrs("lang").OnElements("html")
	p.AllowStyling()
	p.AllowUnsafe(true)
	return p
}
