package assets

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/VamsiKurapati/docrender/internal/document"
)

// FailurePrefix starts every failure message attached to an image.
const FailurePrefix = "Failed to load image: "

// DefaultConcurrency bounds parallel fetches within one document.
const DefaultConcurrency = 16

// Resolver replaces asset references in a document with inline data.
type Resolver struct {
	fetcher     Fetcher
	cache       Cache
	concurrency int
	logger      *slog.Logger
	flight      singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache shares fetched assets across documents. Nil disables caching.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithConcurrency bounds parallel fetches. Values below 1 mean unbounded.
func WithConcurrency(n int) Option {
	return func(r *Resolver) { r.concurrency = n }
}

// WithLogger sets the logger for fetch failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver around fetcher.
func NewResolver(fetcher Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveDocument returns a copy of doc in which every image and image
// background holding an asset reference is inlined or annotated with a
// failure. Each distinct reference is fetched once, concurrently with the
// others; the input document is not modified.
func (r *Resolver) ResolveDocument(ctx context.Context, doc *document.Document) *document.Document {
	out := doc.Clone()
	if out == nil {
		return nil
	}

	var (
		order   []string
		pending = map[string]*targets{}
	)
	add := func(src string) *targets {
		ref, ok := ParseReference(src)
		if !ok {
			return nil
		}
		key := ref.String()
		t, seen := pending[key]
		if !seen {
			t = &targets{ref: ref}
			pending[key] = t
			order = append(order, key)
		}
		return t
	}

	for _, img := range out.Images() {
		if t := add(img.Src); t != nil {
			t.images = append(t.images, img)
		}
	}
	for i := range out.Pages {
		bg := out.Pages[i].Background
		if bg == nil || bg.Kind != document.BackgroundImage {
			continue
		}
		if t := add(bg.Value); t != nil {
			t.backgrounds = append(t.backgrounds, bg)
		}
	}

	var g errgroup.Group
	if r.concurrency > 0 {
		g.SetLimit(r.concurrency)
	}
	for _, key := range order {
		t := pending[key]
		g.Go(func() error {
			a, err := r.fetch(ctx, t.ref)
			t.apply(a, err)
			return nil
		})
	}

	// Workers never return errors: failures are recorded on the elements.
	_ = g.Wait()
	return out
}

// targets are the images and backgrounds sharing one reference.
type targets struct {
	ref         Reference
	images      []*document.Image
	backgrounds []*document.Background
}

func (t *targets) apply(a Asset, err error) {
	for _, img := range t.images {
		if err != nil {
			img.Error = FailurePrefix + err.Error()
			continue
		}
		img.Src = a.DataURI()
		img.Error = ""
	}
	for _, bg := range t.backgrounds {
		if err != nil {
			bg.Error = FailurePrefix + err.Error()
			continue
		}
		bg.Value = a.DataURI()
		bg.Error = ""
	}
}

// ResolveImage returns a resolved copy of img.
func (r *Resolver) ResolveImage(ctx context.Context, img *document.Image) *document.Image {
	cp := *img
	r.resolveImage(ctx, &cp)
	return &cp
}

func (r *Resolver) resolveImage(ctx context.Context, img *document.Image) {
	ref, ok := ParseReference(img.Src)
	if !ok {
		return
	}
	a, err := r.fetch(ctx, ref)
	(&targets{ref: ref, images: []*document.Image{img}}).apply(a, err)
}

// fetch consults the cache before calling the fetcher. Concurrent misses
// for the same reference share one request.
func (r *Resolver) fetch(ctx context.Context, ref Reference) (Asset, error) {
	key := ref.String()
	if r.cache != nil {
		if a, ok := r.cache.Get(key); ok {
			r.logger.DebugContext(ctx, "asset cache hit", "ref", key)
			return a, nil
		}
	}

	v, err, shared := r.flight.Do(key, func() (any, error) {
		start := time.Now()
		a, err := r.fetcher.Fetch(ctx, ref)
		if err != nil {
			r.logger.WarnContext(ctx, "asset fetch failed",
				slog.String("ref", key),
				slog.Duration("elapsed", time.Since(start)),
				slog.Any("error", err))
			return Asset{}, err
		}

		r.logger.DebugContext(ctx, "asset fetched",
			slog.String("ref", key),
			slog.String("content_type", a.ContentType),
			slog.Int("bytes", len(a.Data)))
		if r.cache != nil {
			r.cache.Set(key, a)
		}
		return a, nil
	})
	if shared {
		r.logger.DebugContext(ctx, "asset request shared", "ref", key)
	}
	if err != nil {
		return Asset{}, err
	}
	return v.(Asset), nil
}
