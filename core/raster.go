package core

import (
	"fmt"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// GenerateRaster produces the ordered endpoints of a boustrophedon raster
// pattern in the local frame, anchored at origin. Each flight line is length
// PatternLengthM along the orientation's primary axis; adjacent lines are
// offset by LineSpacingM along the perpendicular axis. All points sit at
// origin.U + AltitudeAGLM.
//
// The returned order is the authoritative flight order: line 0 first, then
// line 1, and so on. With Snake set, odd-indexed lines are reversed so
// consecutive lines connect end-to-end; without it every line starts from the
// same side and the fly-back between lines is implicit.
func GenerateRaster(params model.CoverageParams, origin model.LocalCoord) ([]model.LocalCoord, error) {
	if params.NumberOfLines < 1 {
		return nil, fmt.Errorf("%w: number of lines %d", ErrInvalidParameter, params.NumberOfLines)
	}
	if params.PatternLengthM <= 0 {
		return nil, fmt.Errorf("%w: pattern length %gm", ErrInvalidParameter, params.PatternLengthM)
	}
	// A single line needs no spacing computation at all.
	if params.NumberOfLines > 1 && params.LineSpacingM <= 0 {
		return nil, fmt.Errorf("%w: line spacing %gm", ErrInvalidParameter, params.LineSpacingM)
	}

	alt := origin.U + params.AltitudeAGLM
	points := make([]model.LocalCoord, 0, 2*params.NumberOfLines)

	for i := 0; i < params.NumberOfLines; i++ {
		offset := float64(i) * params.LineSpacingM

		var start, end model.LocalCoord
		switch params.Orientation {
		case model.OrientationVertical:
			// Lines run south-north, stepping east between lines.
			start = model.LocalCoord{E: origin.E + offset, N: origin.N, U: alt}
			end = model.LocalCoord{E: origin.E + offset, N: origin.N + params.PatternLengthM, U: alt}
		default:
			// Lines run west-east, stepping north between lines.
			start = model.LocalCoord{E: origin.E, N: origin.N + offset, U: alt}
			end = model.LocalCoord{E: origin.E + params.PatternLengthM, N: origin.N + offset, U: alt}
		}

		if params.Snake && i%2 == 1 {
			start, end = end, start
		}
		points = append(points, start, end)
	}

	return points, nil
}
