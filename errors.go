package docrender

import (
	"errors"

	"github.com/VamsiKurapati/docrender/internal/document"
	"github.com/VamsiKurapati/docrender/internal/render"
)

// Sentinel errors for library operations.
var (
	// Document errors.
	ErrEmptyDocument   = document.ErrEmptyDocument
	ErrInvalidPageSize = document.ErrInvalidPageSize
	ErrDecode          = document.ErrDecode

	// Engine errors. ErrRenderExhausted is the only render failure returned
	// to callers; the others classify the per-tier failures it wraps.
	ErrRenderExhausted = render.ErrRenderExhausted
	ErrTierTimeout     = render.ErrTierTimeout
	ErrTierLaunch      = render.ErrTierLaunch
	ErrEngineNotFound  = render.ErrEngineNotFound

	ErrInternal = errors.New("internal render error")
)

// ExhaustedError is returned when every engine tier failed. It lists each
// tier failure and the environment diagnostics.
type ExhaustedError = render.ExhaustedError

// TierError is one tier's failure.
type TierError = render.TierError
