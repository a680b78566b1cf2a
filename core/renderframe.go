package core

import (
	"math"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// ToRenderFrame maps an ENU coordinate into the renderer's convention
// (x = east, y = up, z = north). Pure axis permutation; no precision loss.
func ToRenderFrame(l model.LocalCoord) model.RenderCoord {
	return model.RenderCoord{X: l.E, Y: l.U, Z: l.N}
}

// FromRenderFrame inverts ToRenderFrame.
func FromRenderFrame(r model.RenderCoord) model.LocalCoord {
	return model.LocalCoord{E: r.X, N: r.Z, U: r.Y}
}

// HeadingToRender converts an ENU heading (degrees clockwise from north) into
// the renderer's angular convention (degrees counter-clockwise from its east
// axis): a 90° offset plus a direction reversal. The conversion is its own
// inverse up to normalisation.
func HeadingToRender(headingDeg float64) float64 {
	return NormalizeHeadingDeg(90.0 - headingDeg)
}

// HeadingFromRender converts a renderer angle back into an ENU heading.
func HeadingFromRender(renderDeg float64) float64 {
	return NormalizeHeadingDeg(90.0 - renderDeg)
}

// NormalizeHeadingDeg wraps an angle into [0, 360).
func NormalizeHeadingDeg(deg float64) float64 {
	d := math.Mod(deg, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}
