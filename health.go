package docrender

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/VamsiKurapati/docrender/internal/document"
	"github.com/VamsiKurapati/docrender/internal/pipeline"
)

// Health statuses.
const (
	HealthOK    = "ok"
	HealthError = "error"
)

// Check is the outcome of one health probe.
type Check struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"durationNs"`
}

// HealthReport describes whether the pipeline works on this host.
type HealthReport struct {
	Status      string      `json:"status"`
	Environment Environment `json:"environment"`
	Tiers       []string    `json:"tiers"`
	Checks      []Check     `json:"checks"`
}

// OK reports whether every check passed.
func (h *HealthReport) OK() bool { return h.Status == HealthOK }

// 1x1 transparent PNG.
const probePNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// probeDocument holds one element of each kind.
func probeDocument() *document.Document {
	return &document.Document{Pages: []document.Page{{
		Width:      200,
		Height:     100,
		Background: &document.Background{Kind: document.BackgroundColor, Value: "#ffffff"},
		Elements: []document.Element{
			&document.Text{Frame: document.Frame{X: 10, Y: 10, Width: 100, Height: 20}, Text: "health\ncheck"},
			&document.Image{Frame: document.Frame{X: 120, Y: 10, Width: 20, Height: 20, ZIndex: 1}, Src: probePNG},
			&document.Vector{Frame: document.Frame{X: 10, Y: 40, Width: 40, Height: 40}, Markup: `<svg><rect width="10" height="10"/></svg>`},
			&document.Shape{Frame: document.Frame{X: 60, Y: 40, Width: 40, Height: 40, Rotation: 15}, Kind: document.ShapeStar, Fill: "#336699", Shadow: true},
		},
	}}}
}

// Health exercises asset resolution, element compilation and page assembly
// on a built-in document. It never launches the engine.
func (r *Renderer) Health(ctx context.Context) *HealthReport {
	report := &HealthReport{
		Environment: r.Environment(),
		Tiers:       r.Tiers(),
	}

	doc := probeDocument()
	var resolved *document.Document
	report.Checks = append(report.Checks,
		runCheck("assets", func() error {
			resolved = r.resolver.ResolveDocument(ctx, doc)
			if err := ctx.Err(); err != nil {
				return err
			}
			img := resolved.Images()[0]
			if img.Failed() || img.Src != probePNG {
				return fmt.Errorf("inline image altered: %s", img.Error)
			}
			return nil
		}),
		runCheck("compile", func() error {
			if resolved == nil {
				resolved = doc
			}
			return checkMarkup(pipeline.Assemble(resolved))
		}),
	)

	report.Status = HealthOK
	for _, c := range report.Checks {
		if !c.OK {
			report.Status = HealthError
			break
		}
	}
	r.logger.DebugContext(ctx, "health check", "status", report.Status)
	return report
}

func runCheck(name string, fn func() error) (c Check) {
	c.Name = name
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			c.OK, c.Detail = false, fmt.Sprintf("panic: %v", rec)
		}
		c.Duration = time.Since(start)
	}()

	if err := fn(); err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	return c
}

// checkMarkup verifies that every probe element produced its fragment.
func checkMarkup(markup string) error {
	var missing []string
	for _, want := range []string{
		`class="page"`, "el-text", "el-image", "el-vector", "el-shape",
		"health<br>check", `viewBox="0 0 40 40"`, "shadow-p1-e3",
	} {
		if !strings.Contains(markup, want) {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("markup missing %s", strings.Join(missing, ", "))
	}
	return nil
}
