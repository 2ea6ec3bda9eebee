package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4: 210mm x 297mm -> inches: 8.27 x 11.69
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69

	minMarginInches = 0.4
	maxMarginInches = 0.5
)

type ChromeConfig struct {
	// ExecPath overrides the browser binary; empty uses chromedp's lookup.
	ExecPath string
	// Timeout bounds one whole print, browser start included.
	Timeout time.Duration
	// IdleWait is how long to wait for network idle after the DOM is ready.
	IdleWait time.Duration
	// MarginInches is applied to all four sides.
	MarginInches float64
}

// ChromedpRenderer prints HTML through a fresh headless Chrome per call so
// no state leaks between documents.
type ChromedpRenderer struct {
	cfg ChromeConfig
}

func NewChromedpRenderer(cfg ChromeConfig) *ChromedpRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.IdleWait <= 0 {
		cfg.IdleWait = 2 * time.Second
	}
	cfg.MarginInches = ClampMargin(cfg.MarginInches)
	return &ChromedpRenderer{cfg: cfg}
}

// ClampMargin keeps a margin inside the supported 0.4-0.5 inch band.
func ClampMargin(m float64) float64 {
	switch {
	case m < minMarginInches:
		return minMarginInches
	case m > maxMarginInches:
		return maxMarginInches
	}
	return m
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	ctx2, cancel2 := context.WithTimeout(cctx, r.cfg.Timeout)
	defer cancel2()

	// the page is loaded from disk so it runs in a file:// origin of its own
	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, err
	}

	idle := newIdleWatcher()
	chromedp.ListenTarget(ctx2, idle.onEvent)

	var pdfBuf []byte
	htmlURL := "file://" + htmlPath
	err = chromedp.Run(ctx2,
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, loaderID, errText, err := page.Navigate(htmlURL).Do(ctx)
			if err != nil {
				return err
			}
			if errText != "" {
				return fmt.Errorf("navigate: %s", errText)
			}
			idle.expect(loaderID)
			return nil
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return idle.wait(ctx, r.cfg.IdleWait)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			m := r.cfg.MarginInches
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(m).
				WithMarginBottom(m).
				WithMarginLeft(m).
				WithMarginRight(m).
				WithPreferCSSPageSize(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// idleWatcher fires once the navigation identified by expect reports the
// networkIdle lifecycle event. Events may arrive before expect is called.
type idleWatcher struct {
	mu    sync.Mutex
	seen  map[cdp.LoaderID]bool
	want  cdp.LoaderID
	fired bool
	ch    chan struct{}
}

func newIdleWatcher() *idleWatcher {
	return &idleWatcher{seen: map[cdp.LoaderID]bool{}, ch: make(chan struct{})}
}

func (w *idleWatcher) onEvent(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.Name != "networkIdle" {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen[e.LoaderID] = true
	w.maybeFire()
}

func (w *idleWatcher) expect(id cdp.LoaderID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.want = id
	w.maybeFire()
}

func (w *idleWatcher) maybeFire() {
	if w.fired || w.want == "" || !w.seen[w.want] {
		return
	}
	w.fired = true
	close(w.ch)
}

// wait returns when the page is idle or max has passed; a slow page is
// printed as it stands rather than failed.
func (w *idleWatcher) wait(ctx context.Context, max time.Duration) error {
	t := time.NewTimer(max)
	defer t.Stop()
	select {
	case <-w.ch:
		return nil
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
