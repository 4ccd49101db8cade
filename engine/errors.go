package engine

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-preview/engine/assets"
	"github.com/Carmen-Shannon/oxy-preview/engine/session"
)

var (
	// ErrAssetMissing is returned when a named built-in asset cannot be resolved.
	ErrAssetMissing = assets.ErrAssetMissing

	// ErrNoRenderer is returned when no preview camera can be instantiated.
	ErrNoRenderer = session.ErrNoRenderer

	// ErrInvalidRequest is returned by RenderRequest.Validate. Render itself treats a request
	// without a subject as a no-op.
	ErrInvalidRequest = errors.New("invalid render request")

	// ErrExportFailure is returned when the current image cannot be written.
	ErrExportFailure = errors.New("image export failed")

	// ErrRenderInFlight is returned when Render is called while another render is running.
	ErrRenderInFlight = errors.New("render already in flight")
)
