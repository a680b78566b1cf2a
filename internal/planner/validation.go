package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cdav1990/OverWatch-sub009/model"
)

var (
	ErrInvalidRequest = errors.New("invalid plan request")
	ErrUnknownCamera  = errors.New("unknown camera profile")
)

// ValidateRequest performs structural validation on a plan request before any
// geometry is computed.
func ValidateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.MissionName) == "" {
		return fmt.Errorf("%w: mission_name is required", ErrInvalidRequest)
	}
	if !req.Origin.Valid() {
		return fmt.Errorf("%w: origin out of range: lat=%g lon=%g", ErrInvalidRequest, req.Origin.LatitudeDeg, req.Origin.LongitudeDeg)
	}
	if strings.TrimSpace(req.Camera) == "" {
		return fmt.Errorf("%w: camera profile name is required", ErrInvalidRequest)
	}
	if req.SpeedMps <= 0 {
		return fmt.Errorf("%w: speed_mps must be positive, got %g", ErrInvalidRequest, req.SpeedMps)
	}
	if err := validateCoverage(req.Coverage); err != nil {
		return err
	}
	return validateSafety(req.Safety)
}

func validateCoverage(c model.CoverageParams) error {
	if c.AltitudeAGLM <= 0 {
		return fmt.Errorf("%w: altitude_agl_m must be positive, got %g", ErrInvalidRequest, c.AltitudeAGLM)
	}
	if c.OverlapFraction <= 0 || c.OverlapFraction >= 1 {
		return fmt.Errorf("%w: overlap_fraction must be inside (0, 1), got %g", ErrInvalidRequest, c.OverlapFraction)
	}
	if c.PatternLengthM <= 0 {
		return fmt.Errorf("%w: pattern_length_m must be positive, got %g", ErrInvalidRequest, c.PatternLengthM)
	}
	if c.NumberOfLines < 1 {
		return fmt.Errorf("%w: number_of_lines must be >= 1, got %d", ErrInvalidRequest, c.NumberOfLines)
	}
	if c.LineSpacingM < 0 {
		return fmt.Errorf("%w: line_spacing_m must not be negative, got %g", ErrInvalidRequest, c.LineSpacingM)
	}
	switch c.Orientation {
	case model.OrientationHorizontal, model.OrientationVertical:
	default:
		return fmt.Errorf("%w: unknown orientation %d", ErrInvalidRequest, c.Orientation)
	}
	return nil
}

func validateSafety(s model.SafetyParams) error {
	switch s.MissionEnd {
	case model.MissionEndRTL, model.MissionEndLand, model.MissionEndHold:
	default:
		return fmt.Errorf("%w: unknown mission end action %d", ErrInvalidRequest, s.MissionEnd)
	}
	if s.MissionEnd == model.MissionEndRTL && s.RTLAltitudeM < 0 {
		return fmt.Errorf("%w: rtl_altitude_m must not be negative, got %g", ErrInvalidRequest, s.RTLAltitudeM)
	}
	if s.ClimbSpeedMps < 0 {
		return fmt.Errorf("%w: climb_speed_mps must not be negative, got %g", ErrInvalidRequest, s.ClimbSpeedMps)
	}
	return nil
}
