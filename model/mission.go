package model

import "time"

// WaypointAction is a discrete action executed on waypoint arrival.
type WaypointAction string

const (
	ActionTriggerCamera WaypointAction = "trigger_camera"
	ActionStartInterval WaypointAction = "start_interval_capture"
	ActionStopInterval  WaypointAction = "stop_interval_capture"
)

// Waypoint is a single commanded position. Geodetic and Local must describe
// the same physical point under the owning mission's LocalOrigin; any
// mutation of one requires recomputing the other.
type Waypoint struct {
	Geodetic GeodeticCoord
	Local    LocalCoord
	Camera   CameraPose

	// Optional per-waypoint overrides.
	SpeedMps float64
	HoldTime time.Duration
	Actions  []WaypointAction
}

// SegmentType tags how a path segment was produced.
type SegmentType string

const (
	SegmentTypeGrid     SegmentType = "grid"
	SegmentTypeStraight SegmentType = "straight"
)

// PathSegment is an ordered flight path. The waypoint order is the
// authoritative flight order; consumers must not re-sort it. Segments are
// immutable once attached to a mission except through explicit replacement.
type PathSegment struct {
	ID         string
	Type       SegmentType
	SpeedMps   float64
	MissionEnd MissionEndAction
	Waypoints  []Waypoint
}

// WaypointCount returns the number of waypoints in the segment.
func (s *PathSegment) WaypointCount() int {
	if s == nil {
		return 0
	}
	return len(s.Waypoints)
}

// Mission owns a fixed local origin and the path segments planned against it.
// The origin is immutable for the mission's lifetime: changing it would
// invalidate every stored local coordinate.
type Mission struct {
	ID        string
	Name      string
	Origin    GeodeticCoord
	Takeoff   LocalCoord
	CreatedAt time.Time

	Segments []*PathSegment
}
