package docrender

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/VamsiKurapati/docrender/internal/assets"
	"github.com/VamsiKurapati/docrender/internal/document"
	"github.com/VamsiKurapati/docrender/internal/render"
)

// Document model.
type (
	Document       = document.Document
	Page           = document.Page
	Background     = document.Background
	BackgroundKind = document.BackgroundKind
	Element        = document.Element
	Frame          = document.Frame
	Text           = document.Text
	Image          = document.Image
	Vector         = document.Vector
	Shape          = document.Shape
	ShapeKind      = document.ShapeKind
	DashPattern    = document.DashPattern
)

// Background kinds.
const (
	BackgroundColor    = document.BackgroundColor
	BackgroundGradient = document.BackgroundGradient
	BackgroundImage    = document.BackgroundImage
	BackgroundSVG      = document.BackgroundSVG
)

// Asset resolution.
type (
	// Fetcher retrieves the binary behind a template: or cloud: reference.
	Fetcher = assets.Fetcher
	// AssetCache shares fetched assets across renders.
	AssetCache     = assets.Cache
	Asset          = assets.Asset
	AssetReference = assets.Reference
)

// Engine execution.
type (
	// Tier is one engine launch strategy of the render chain.
	Tier = render.Tier
	// PageSize is the physical page size in CSS pixels.
	PageSize = render.Size
	// TierConfig controls engine discovery for the default tiers.
	TierConfig  = render.TierConfig
	Environment = render.Environment
)

// Parse decodes a document from JSON or YAML.
func Parse(data []byte) (*Document, error) {
	return document.Parse(data)
}

// NewAssetCache returns an in-memory asset cache whose entries expire after
// ttl and are swept every cleanup interval.
func NewAssetCache(ttl, cleanup time.Duration) AssetCache {
	return assets.NewTTLCache(ttl, cleanup)
}

// Result is the output of a render.
type Result struct {
	// PDF is empty for Markup.
	PDF []byte
	// HTML is the assembled document markup handed to the engine.
	HTML []byte
	// Pages is the number of pages in the document.
	Pages int
	// Degraded lists elements rendered as a placeholder.
	Degraded []Degradation
}

// Degradation records one element or page background that could not be
// rendered as authored. Index is -1 for a page background.
type Degradation struct {
	Page    int    `json:"page"`
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds construction-time settings.
type rendererConfig struct {
	tierTimeout  time.Duration
	tierConfig   render.TierConfig
	tiers        []render.Tier
	endpoints    assets.Endpoints
	httpClient   *http.Client
	fetchTimeout time.Duration
	rateEvery    time.Duration
	rateBurst    int
	concurrency  int
	deployment   string
	keepMarkup   bool
}

// WithTierTimeout sets the timeout of each engine tier.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTierTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docrender: WithTierTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.tierTimeout = d
	}
}

// WithTierConfig sets engine discovery (binary paths, sandbox) for the
// default tier chain.
func WithTierConfig(cfg TierConfig) Option {
	return func(r *Renderer) {
		r.cfg.tierConfig = cfg
	}
}

// WithTiers replaces the default tier chain.
func WithTiers(tiers ...Tier) Option {
	return func(r *Renderer) {
		r.cfg.tiers = tiers
	}
}

// WithAssetEndpoints sets the URLs serving template: and cloud: assets.
// An endpoint containing {name} has it replaced by the asset name;
// otherwise the name is appended as a path segment.
func WithAssetEndpoints(template, cloud string) Option {
	return func(r *Renderer) {
		r.cfg.endpoints = assets.Endpoints{Template: template, Cloud: cloud}
	}
}

// WithHTTPClient sets the client used for asset fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Renderer) {
		r.cfg.httpClient = c
	}
}

// WithFetchTimeout bounds each asset fetch. Non-positive values keep the default.
func WithFetchTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.cfg.fetchTimeout = d
	}
}

// WithRateLimit throttles asset fetches to perSecond requests with the given
// burst. Zero disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(r *Renderer) {
		if perSecond <= 0 {
			r.cfg.rateEvery = 0
			return
		}
		r.cfg.rateEvery = time.Duration(float64(time.Second) / perSecond)
		r.cfg.rateBurst = burst
	}
}

// WithFetcher replaces the HTTP asset fetcher.
func WithFetcher(f Fetcher) Option {
	return func(r *Renderer) {
		r.fetcher = f
	}
}

// WithAssetCache shares fetched assets across renders.
func WithAssetCache(c AssetCache) Option {
	return func(r *Renderer) {
		r.cache = c
	}
}

// WithConcurrency bounds parallel asset fetches within one document.
// Zero keeps the default of 16; negative values mean unbounded.
func WithConcurrency(n int) Option {
	return func(r *Renderer) {
		r.cfg.concurrency = n
	}
}

// WithDeployment names the deployment reported in diagnostics instead of
// detecting it from platform variables.
func WithDeployment(name string) Option {
	return func(r *Renderer) {
		r.cfg.deployment = name
	}
}

// WithKeepMarkup leaves the temporary markup file on disk after rendering.
func WithKeepMarkup(keep bool) Option {
	return func(r *Renderer) {
		r.cfg.keepMarkup = keep
	}
}

// WithLogger sets the renderer's logger. By default the package logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}
