package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/VamsiKurapati/docrender/internal/process"
)

// cssPixelsPerInch converts page pixels to the inches the PDF export expects.
const cssPixelsPerInch = 96

// defaultIdleWindow is how long the network must stay quiet before export.
const defaultIdleWindow = 300 * time.Millisecond

// Size is the target page box in CSS pixels.
type Size struct {
	Width  float64
	Height float64
}

// Inches returns the size in inches.
func (s Size) Inches() (w, h float64) {
	return s.Width / cssPixelsPerInch, s.Height / cssPixelsPerInch
}

// Tier is one launch strategy in the fallback chain. Render must release
// every resource it acquired before returning, on success and failure.
type Tier interface {
	Name() string
	Render(ctx context.Context, markupPath string, size Size) ([]byte, error)
}

// Compile-time interface check.
var _ Tier = (*rodTier)(nil)

// rodTier renders with a headless Chrome started by the rod launcher.
// configure builds the launcher or reports why this tier cannot run.
type rodTier struct {
	name      string
	configure func() (*launcher.Launcher, error)
	idle      time.Duration
}

func (t *rodTier) Name() string { return t.name }

// Render opens exactly one page, loads markupPath and exports it as PDF.
func (t *rodTier) Render(ctx context.Context, markupPath string, size Size) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l, err := t.configure()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTierLaunch, err)
	}
	l = l.Context(ctx)
	defer release(l)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTierLaunch, err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect: %v", ErrTierLaunch, err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: creating page: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	idle := t.idle
	if idle <= 0 {
		idle = defaultIdleWindow
	}
	return exportPDF(ctx, page, "file://"+markupPath, size, idle)
}

// exportPDF navigates, waits for load and network idle, then prints the
// page box with zero margins and backgrounds enabled.
func exportPDF(ctx context.Context, page *rod.Page, url string, size Size, idle time.Duration) ([]byte, error) {
	waitIdle := page.WaitRequestIdle(idle, nil, nil, nil)

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	waitIdle()

	// WaitRequestIdle returns silently when the context ends.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, h := size.Inches()
	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:        floatPtr(w),
		PaperHeight:       floatPtr(h),
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFExport, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFExport, err)
	}
	if len(buf) == 0 {
		return nil, ErrEmptyOutput
	}
	return buf, nil
}

// release stops the engine and removes its profile directory. Launchers
// that never started a process have nothing to release.
func release(l *launcher.Launcher) {
	pid := l.PID()
	if pid == 0 {
		return
	}
	// Best-effort; launcher.Kill covers the main process if the group kill fails.
	_ = process.KillGroup(pid)
	l.Kill()
	l.Cleanup()
}

func floatPtr(v float64) *float64 {
	return &v
}
