package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/tms/backend/internal/application/document"
	"go.uber.org/zap"
)

var _ document.PDFRenderer = (*ChromedpRenderer)(nil)

const (
	defaultChromeTimeout = 30 * time.Second
	mmPerInch            = 25.4
	// Chrome clips the footer template when the bottom margin is smaller
	minFooterMarginMM = 10
)

// ChromedpConfig configures headless Chrome
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// ExecPath is the Chrome binary; empty lets chromedp search PATH
	ExecPath string
	// RemoteURL attaches to a running browser's DevTools endpoint instead of launching one
	RemoteURL string
	// NoSandbox is needed when Chrome runs as root in a container
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpRenderer prints HTML to PDF. Each render opens a fresh tab on a
// shared browser allocator; the browser process starts with the first render.
type ChromedpRenderer struct {
	timeout time.Duration
	scale   float64
	logger  *zap.Logger

	alloc context.Context
	close context.CancelFunc
}

// NewChromedpRenderer prepares the allocator. Call Close to stop the browser.
func NewChromedpRenderer(cfg *ChromedpConfig) *ChromedpRenderer {
	if cfg == nil {
		cfg = &ChromedpConfig{}
	}
	r := &ChromedpRenderer{
		timeout: cfg.DefaultTimeout,
		scale:   cfg.Scale,
		logger:  cfg.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = defaultChromeTimeout
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.logger = r.logger.Named("chromedp")

	if cfg.RemoteURL != "" {
		r.alloc, r.close = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		r.alloc, r.close = chromedp.NewExecAllocator(context.Background(), browserFlags(cfg)...)
	}
	return r
}

func browserFlags(cfg *ChromedpConfig) []chromedp.ExecAllocatorOption {
	flags := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	flags = append(flags,
		chromedp.DisableGPU,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		flags = append(flags, chromedp.NoSandbox)
	}
	if cfg.ExecPath != "" {
		flags = append(flags, chromedp.ExecPath(cfg.ExecPath))
	}
	return flags
}

// RenderPDF prints a delivery note document
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, htmlDoc string) ([]byte, error) {
	return r.Print(ctx, htmlDoc, DeliveryNoteLayout())
}

// Print renders htmlDoc with the given layout. Fragments are wrapped in a
// minimal document first.
func (r *ChromedpRenderer) Print(ctx context.Context, htmlDoc string, layout Layout) ([]byte, error) {
	if strings.TrimSpace(htmlDoc) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !layout.Paper.valid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size "+layout.Paper.Name, nil)
	}
	timeout := layout.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}

	tab, closeTab := chromedp.NewContext(r.alloc, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer closeTab()
	tab, cancel := context.WithTimeout(tab, timeout)
	defer cancel()
	// the tab hangs off the allocator, so the caller's cancellation is forwarded
	defer context.AfterFunc(ctx, cancel)()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		setContent(wrapDocument(htmlDoc, layout.Title)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = r.printParams(layout).Do(ctx)
			return err
		}),
	)
	switch {
	case err != nil && errors.Is(tab.Err(), context.DeadlineExceeded):
		return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case err != nil:
		r.logger.Error("PDF rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	case len(pdf) == 0:
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	r.logger.Info("PDF rendered",
		zap.String("paper", layout.Paper.Name),
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return pdf, nil
}

func setContent(doc string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
	})
}

// printParams converts the millimeter layout to Chrome's inch based parameters
func (r *ChromedpRenderer) printParams(l Layout) *page.PrintToPDFParams {
	inches := func(mm float64) float64 { return mm / mmPerInch }
	bottom := l.MarginMM
	if l.Footer != "" && bottom < minFooterMarginMM {
		bottom = minFooterMarginMM
	}
	p := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(inches(l.Paper.WidthMM)).
		WithPaperHeight(inches(l.Paper.HeightMM)).
		WithMarginTop(inches(l.MarginMM)).
		WithMarginRight(inches(l.MarginMM)).
		WithMarginBottom(inches(bottom)).
		WithMarginLeft(inches(l.MarginMM)).
		WithScale(r.scale).
		WithLandscape(l.Landscape)
	if l.Footer != "" {
		p = p.WithDisplayHeaderFooter(true).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(l.Footer)
	}
	return p
}

// wrapDocument leaves complete documents alone and wraps fragments
func wrapDocument(content, title string) string {
	lower := strings.ToLower(content)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return content
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(title))
	}
	b.WriteString("</head><body>")
	b.WriteString(content)
	b.WriteString("</body></html>")
	return b.String()
}

// Close stops the browser
func (r *ChromedpRenderer) Close() error {
	r.close()
	return nil
}
