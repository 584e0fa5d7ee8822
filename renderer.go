package docrender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/VamsiKurapati/docrender/internal/assets"
	"github.com/VamsiKurapati/docrender/internal/document"
	"github.com/VamsiKurapati/docrender/internal/pipeline"
	"github.com/VamsiKurapati/docrender/internal/render"
)

// Compile-time interface implementation checks.
var (
	_ Fetcher    = (*assets.HTTPFetcher)(nil)
	_ AssetCache = (*assets.TTLCache)(nil)
)

// Renderer runs the document pipeline: asset resolution, compilation,
// assembly and engine export. Create with NewRenderer. A Renderer holds no
// engine process between calls and is safe for concurrent use.
type Renderer struct {
	cfg      rendererConfig
	fetcher  Fetcher
	cache    AssetCache
	logger   *slog.Logger
	resolver *assets.Resolver
	executor *render.Executor
}

// NewRenderer creates a Renderer. Without options it uses the default four
// engine tiers, a 60s tier timeout and no asset endpoints, so template: and
// cloud: references degrade to placeholders.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		cfg: rendererConfig{tierTimeout: render.DefaultTierTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = Logger()
	}
	r.logger = slog.New(requestIDHandler{r.logger.Handler()})

	if r.fetcher == nil {
		httpOpts := []assets.HTTPOption{
			assets.WithClient(r.cfg.httpClient),
			assets.WithFetchTimeout(r.cfg.fetchTimeout),
			assets.WithRateLimit(r.cfg.rateEvery, r.cfg.rateBurst),
		}
		r.fetcher = assets.NewHTTPFetcher(r.cfg.endpoints, httpOpts...)
	}

	resolverOpts := []assets.Option{assets.WithCache(r.cache), assets.WithLogger(r.logger)}
	if r.cfg.concurrency != 0 {
		resolverOpts = append(resolverOpts, assets.WithConcurrency(r.cfg.concurrency))
	}
	r.resolver = assets.NewResolver(r.fetcher, resolverOpts...)

	execOpts := []render.Option{
		render.WithTierTimeout(r.cfg.tierTimeout),
		render.WithTierConfig(r.cfg.tierConfig),
		render.WithKeepMarkup(r.cfg.keepMarkup),
		render.WithLogger(r.logger),
	}
	if r.cfg.tiers != nil {
		execOpts = append(execOpts, render.WithTiers(r.cfg.tiers...))
	}
	if r.cfg.deployment != "" {
		execOpts = append(execOpts, render.WithEnvironment(render.DetectEnvironment(r.cfg.deployment)))
	}
	r.executor = render.NewExecutor(execOpts...)

	return r
}

// Render produces a PDF from doc. Elements whose assets cannot be fetched
// are rendered as placeholders and listed in Result.Degraded; the only
// engine failure returned is an *ExhaustedError wrapping ErrRenderExhausted.
// The input document is not modified.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, doc *Document) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, fmt.Errorf("%w: %v", ErrInternal, rec)
		}
	}()

	ctx = ensureRequestID(ctx)
	start := time.Now()

	res, size, err := r.prepare(ctx, doc)
	if err != nil {
		return nil, err
	}

	pdf, err := r.executor.Execute(ctx, string(res.HTML), size)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}

	res.PDF = pdf
	r.logger.InfoContext(ctx, "document rendered",
		slog.Int("pages", res.Pages),
		slog.Int("degraded", len(res.Degraded)),
		slog.Int("bytes", len(pdf)),
		slog.Duration("duration", time.Since(start)))
	return res, nil
}

// Markup runs the pipeline up to assembly and returns the markup that
// Render would hand to the engine. Result.PDF is empty.
func (r *Renderer) Markup(ctx context.Context, doc *Document) (result *Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result, err = nil, fmt.Errorf("%w: %v", ErrInternal, rec)
		}
	}()

	res, _, err := r.prepare(ensureRequestID(ctx), doc)
	return res, err
}

// Tiers returns the engine tier names in chain order.
func (r *Renderer) Tiers() []string {
	return r.executor.Tiers()
}

// Environment returns the diagnostics attached to engine failures.
func (r *Renderer) Environment() Environment {
	return r.executor.Environment()
}

// prepare validates, resolves and assembles doc. The returned size is
// page 1's: the engine applies one physical page size to every page.
func (r *Renderer) prepare(ctx context.Context, doc *Document) (*Result, render.Size, error) {
	if err := doc.Validate(); err != nil {
		return nil, render.Size{}, err
	}

	resolved := r.resolver.ResolveDocument(ctx, doc)
	if err := ctx.Err(); err != nil {
		return nil, render.Size{}, err
	}

	res := &Result{
		HTML:     []byte(pipeline.Assemble(resolved)),
		Pages:    len(resolved.Pages),
		Degraded: degradations(resolved),
	}
	for _, d := range res.Degraded {
		r.logger.WarnContext(ctx, "element degraded",
			slog.Int("page", d.Page), slog.Int("index", d.Index), slog.String("message", d.Message))
	}

	first := resolved.Pages[0]
	return res, render.Size{Width: first.Width, Height: first.Height}, nil
}

// degradations lists image elements and backgrounds that will render as a
// placeholder or be omitted. Pages count from 1, indices from 0.
func degradations(doc *document.Document) []Degradation {
	var out []Degradation
	for i, p := range doc.Pages {
		if bg := p.Background; bg != nil && bg.Error != "" {
			out = append(out, Degradation{Page: i + 1, Index: -1, Message: bg.Error})
		}
		for j, el := range p.Elements {
			img, ok := el.(*document.Image)
			if !ok {
				continue
			}
			switch {
			case img.Failed():
				out = append(out, Degradation{Page: i + 1, Index: j, Message: img.Error})
			case img.Src == "":
				out = append(out, Degradation{Page: i + 1, Index: j, Message: pipeline.MissingSourceText})
			}
		}
	}
	return out
}

type requestIDKey struct{}

// WithRequestID attaches a request ID to ctx. Render logs carry it as
// request_id; without one Render generates a UUID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID attached to ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func ensureRequestID(ctx context.Context) context.Context {
	if RequestID(ctx) != "" {
		return ctx
	}
	return WithRequestID(ctx, uuid.NewString())
}

// requestIDHandler adds the context's request ID to every record.
type requestIDHandler struct {
	slog.Handler
}

func (h requestIDHandler) Handle(ctx context.Context, rec slog.Record) error {
	if id := RequestID(ctx); id != "" {
		rec.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, rec)
}

func (h requestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestIDHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestIDHandler) WithGroup(name string) slog.Handler {
	return requestIDHandler{h.Handler.WithGroup(name)}
}
