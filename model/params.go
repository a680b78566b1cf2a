package model

// Orientation selects the primary axis of a raster pattern's flight lines.
type Orientation int

const (
	// OrientationHorizontal flies lines east-west, stepping north between lines.
	OrientationHorizontal Orientation = iota
	// OrientationVertical flies lines north-south, stepping east between lines.
	OrientationVertical
)

func (o Orientation) String() string {
	switch o {
	case OrientationHorizontal:
		return "horizontal"
	case OrientationVertical:
		return "vertical"
	}
	return "unknown"
}

// CoverageParams parameterises a raster coverage pattern.
type CoverageParams struct {
	// AltitudeAGLM is the flight altitude above ground level in metres.
	AltitudeAGLM float64
	// OverlapFraction is the desired image overlap, strictly inside (0, 1).
	OverlapFraction float64
	Orientation     Orientation
	// Snake reverses every odd-indexed line so consecutive lines connect
	// end-to-end (boustrophedon). When false every line starts from the
	// same side, implying a fly-back between lines.
	Snake bool
	// PatternLengthM is the length of each flight line in metres.
	PatternLengthM float64
	// LineSpacingM is the perpendicular distance between adjacent lines.
	// Zero means "derive from camera footprint and overlap".
	LineSpacingM float64
	// NumberOfLines is the count of parallel flight lines, >= 1.
	NumberOfLines int
}

// MissionEndAction is the behaviour commanded after the last survey waypoint.
type MissionEndAction int

const (
	// MissionEndRTL returns the vehicle to its launch point.
	MissionEndRTL MissionEndAction = iota
	// MissionEndLand lands at the final position.
	MissionEndLand
	// MissionEndHold loiters at the final position.
	MissionEndHold
)

func (a MissionEndAction) String() string {
	switch a {
	case MissionEndRTL:
		return "RTL"
	case MissionEndLand:
		return "LAND"
	case MissionEndHold:
		return "HOLD"
	}
	return "unknown"
}

// SafetyParams govern the transition waypoints wrapped around a raw pattern.
// Consumed only by the path assembler.
type SafetyParams struct {
	MissionEnd    MissionEndAction
	RTLAltitudeM  float64
	ClimbSpeedMps float64
}
