package assets

import (
	"errors"
	"fmt"
)

// Sentinel errors for asset fetching.
var (
	ErrNoEndpoint     = errors.New("no endpoint configured for scheme")
	ErrUnexpectedCode = errors.New("unexpected response status")
	ErrAssetTooLarge  = errors.New("asset exceeds maximum size")
	ErrEmptyAsset     = errors.New("asset is empty")
)

// FetchError describes a failed asset fetch. Its message is shown inside
// the placeholder that replaces the image.
type FetchError struct {
	Ref    Reference
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s asset %q: %v %d", e.Ref.Scheme, e.Ref.Name, e.Err, e.Status)
	}
	return fmt.Sprintf("%s asset %q: %v", e.Ref.Scheme, e.Ref.Name, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
