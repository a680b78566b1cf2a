package core

import (
	"fmt"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// Footprint is the ground coverage of a single image at a given altitude.
type Footprint struct {
	// WidthM is the cross-track ground width in metres.
	WidthM float64
	// HeightM is the along-track ground height in metres.
	HeightM float64
	// GSDCmPerPx is the ground sample distance along the sensor width.
	GSDCmPerPx float64
}

// ComputeFootprint derives ground sample distance and footprint dimensions
// from camera geometry and altitude above ground level.
func ComputeFootprint(cam model.CameraProfile, altitudeAGLM float64) (Footprint, error) {
	switch {
	case cam.FocalLengthMM <= 0:
		return Footprint{}, fmt.Errorf("%w: focal length %gmm", ErrInvalidParameter, cam.FocalLengthMM)
	case altitudeAGLM <= 0:
		return Footprint{}, fmt.Errorf("%w: altitude AGL %gm", ErrInvalidParameter, altitudeAGLM)
	case cam.SensorWidthMM <= 0 || cam.SensorHeightMM <= 0:
		return Footprint{}, fmt.Errorf("%w: sensor %gx%gmm", ErrInvalidParameter, cam.SensorWidthMM, cam.SensorHeightMM)
	case cam.ImageWidthPx <= 0 || cam.ImageHeightPx <= 0:
		return Footprint{}, fmt.Errorf("%w: image %dx%dpx", ErrInvalidParameter, cam.ImageWidthPx, cam.ImageHeightPx)
	}

	// GSD in cm/pixel: (pixel pitch mm) * altitude m * 100 / focal mm.
	gsdW := (cam.SensorWidthMM / float64(cam.ImageWidthPx)) * altitudeAGLM * 100.0 / cam.FocalLengthMM
	gsdH := (cam.SensorHeightMM / float64(cam.ImageHeightPx)) * altitudeAGLM * 100.0 / cam.FocalLengthMM

	return Footprint{
		WidthM:     gsdW * float64(cam.ImageWidthPx) / 100.0,
		HeightM:    gsdH * float64(cam.ImageHeightPx) / 100.0,
		GSDCmPerPx: gsdW,
	}, nil
}

// ComputeLineSpacing returns the flight-line spacing that yields the desired
// overlap across the given footprint dimension.
func ComputeLineSpacing(footprintDimM, overlapFraction float64) (float64, error) {
	if footprintDimM <= 0 {
		return 0, fmt.Errorf("%w: footprint dimension %gm", ErrInvalidParameter, footprintDimM)
	}
	if overlapFraction <= 0 || overlapFraction >= 1 {
		return 0, fmt.Errorf("%w: overlap fraction %g outside (0,1)", ErrInvalidParameter, overlapFraction)
	}
	return footprintDimM * (1.0 - overlapFraction), nil
}
