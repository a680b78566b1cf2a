package core

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// CoincidentEpsilonM is the distance below which two local coordinates are
// treated as the same physical point when deduplicating transition waypoints.
const CoincidentEpsilonM = 1e-3

// AssemblePath wraps a raw raster pattern with takeoff and mission-end
// transitions, producing a complete flight segment. Every step is a pure
// append; the input slice is never mutated and the result is a new value.
//
// Order of operations: a ground-level waypoint at the takeoff position, then
// every raster point converted to a full waypoint (geodetic attached through
// the mission frame), then - for RTL and LAND mission ends - a ground-level
// waypoint back at the takeoff position unless the pattern already terminates
// there within epsilon. HOLD appends no trailing waypoint.
func AssemblePath(frame *Frame, raster []model.LocalCoord, takeoff *model.LocalCoord, safety model.SafetyParams, speedMps float64) (*model.PathSegment, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: mission local origin is required", ErrMissingPrecondition)
	}
	if takeoff == nil {
		return nil, fmt.Errorf("%w: takeoff position is required", ErrMissingPrecondition)
	}
	if len(raster) == 0 {
		return nil, fmt.Errorf("%w: raster pattern is empty", ErrMissingPrecondition)
	}

	ground := model.LocalCoord{E: takeoff.E, N: takeoff.N, U: 0}

	segment := &model.PathSegment{
		ID:         uuid.New().String(),
		Type:       model.SegmentTypeGrid,
		SpeedMps:   speedMps,
		MissionEnd: safety.MissionEnd,
		Waypoints:  make([]model.Waypoint, 0, len(raster)+2),
	}

	// (a) ground-level waypoint at the takeoff X/Y.
	takeoffWp, err := waypointAt(frame, ground)
	if err != nil {
		return nil, err
	}
	takeoffWp.SpeedMps = safety.ClimbSpeedMps
	takeoffWp.Camera = model.CameraPose{HeadingDeg: headingBetween(ground, raster[0])}
	segment.Waypoints = append(segment.Waypoints, takeoffWp)

	// (b) the raster pattern, nadir-pointing, heading along the travel direction.
	for i, pt := range raster {
		wp, err := waypointAt(frame, pt)
		if err != nil {
			return nil, err
		}
		heading := takeoffWp.Camera.HeadingDeg
		if i+1 < len(raster) {
			heading = headingBetween(pt, raster[i+1])
		} else if i > 0 {
			heading = headingBetween(raster[i-1], pt)
		}
		wp.Camera = model.CameraPose{HeadingDeg: heading, GimbalPitchDeg: -90}
		wp.Actions = []model.WaypointAction{model.ActionTriggerCamera}
		segment.Waypoints = append(segment.Waypoints, wp)
	}

	// (c) mission-end transition. RTL and LAND both come back to the takeoff
	// ground point; skip it when the pattern already ends there.
	if safety.MissionEnd == model.MissionEndRTL || safety.MissionEnd == model.MissionEndLand {
		last := raster[len(raster)-1]
		if last.DistanceTo(ground) > CoincidentEpsilonM {
			endWp, err := waypointAt(frame, ground)
			if err != nil {
				return nil, err
			}
			endWp.SpeedMps = safety.ClimbSpeedMps
			endWp.Camera = model.CameraPose{HeadingDeg: headingBetween(last, ground)}
			segment.Waypoints = append(segment.Waypoints, endWp)
		}
	}

	return segment, nil
}

// waypointAt builds a waypoint whose geodetic and local coordinates describe
// the same physical point under the frame's origin.
func waypointAt(frame *Frame, local model.LocalCoord) (model.Waypoint, error) {
	geo, err := frame.LocalToGeodetic(local)
	if err != nil {
		return model.Waypoint{}, err
	}
	return model.Waypoint{Geodetic: geo, Local: local}, nil
}

// headingBetween returns the ENU heading (degrees clockwise from north) of
// travel from a to b. Coincident points yield north.
func headingBetween(a, b model.LocalCoord) float64 {
	de := b.E - a.E
	dn := b.N - a.N
	if math.Abs(de) < 1e-9 && math.Abs(dn) < 1e-9 {
		return 0
	}
	return NormalizeHeadingDeg(math.Atan2(de, dn) * radToDeg)
}
