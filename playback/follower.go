package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/cdav1990/OverWatch-sub009/core"
	"github.com/cdav1990/OverWatch-sub009/model"
)

// ErrEmptySegment indicates a segment with no waypoints cannot be followed.
var ErrEmptySegment = errors.New("playback: segment has no waypoints")

// Follower interpolates a vehicle position along a planned path segment.
// Between waypoints the vehicle moves in a straight line at the arrival
// waypoint's speed; hold times pause it at the waypoint.
type Follower struct {
	frame     *core.Frame
	waypoints []model.Waypoint

	// legStart[i] is the elapsed time at which the vehicle departs
	// waypoint i; legEnd[i] is when it arrives at waypoint i+1.
	legStart []time.Duration
	legEnd   []time.Duration
	total    time.Duration
}

// NewFollower precomputes the flight timeline for a segment.
func NewFollower(frame *core.Frame, seg *model.PathSegment) (*Follower, error) {
	if frame == nil {
		return nil, errors.New("playback: nil frame")
	}
	if seg == nil || len(seg.Waypoints) == 0 {
		return nil, ErrEmptySegment
	}

	f := &Follower{
		frame:     frame,
		waypoints: seg.Waypoints,
		legStart:  make([]time.Duration, 0, len(seg.Waypoints)-1),
		legEnd:    make([]time.Duration, 0, len(seg.Waypoints)-1),
	}

	elapsed := seg.Waypoints[0].HoldTime
	for i := 0; i+1 < len(seg.Waypoints); i++ {
		from, to := seg.Waypoints[i], seg.Waypoints[i+1]

		speed := to.SpeedMps
		if speed <= 0 {
			speed = seg.SpeedMps
		}
		if speed <= 0 {
			return nil, fmt.Errorf("playback: leg %d has no positive speed", i)
		}

		dist := from.Local.DistanceTo(to.Local)
		travel := time.Duration(dist / speed * float64(time.Second))

		f.legStart = append(f.legStart, elapsed)
		elapsed += travel
		f.legEnd = append(f.legEnd, elapsed)
		elapsed += to.HoldTime
	}
	f.total = elapsed
	return f, nil
}

// Duration returns the total playback duration including hold times.
func (f *Follower) Duration() time.Duration {
	return f.total
}

// LocalAt returns the interpolated position at the given elapsed time. The
// second return is false once the path is complete, in which case the final
// waypoint position is returned.
func (f *Follower) LocalAt(elapsed time.Duration) (model.LocalCoord, bool) {
	if elapsed >= f.total {
		return f.waypoints[len(f.waypoints)-1].Local, false
	}
	if elapsed < 0 {
		return f.waypoints[0].Local, true
	}

	for i := range f.legStart {
		if elapsed < f.legStart[i] {
			// Holding at waypoint i.
			return f.waypoints[i].Local, true
		}
		if elapsed < f.legEnd[i] {
			frac := float64(elapsed-f.legStart[i]) / float64(f.legEnd[i]-f.legStart[i])
			a, b := f.waypoints[i].Local, f.waypoints[i+1].Local
			return model.LocalCoord{
				E: a.E + (b.E-a.E)*frac,
				N: a.N + (b.N-a.N)*frac,
				U: a.U + (b.U-a.U)*frac,
			}, true
		}
	}
	// Holding at the final waypoint.
	return f.waypoints[len(f.waypoints)-1].Local, true
}

// GeodeticAt converts the interpolated position to geodetic coordinates.
func (f *Follower) GeodeticAt(elapsed time.Duration) (model.GeodeticCoord, bool, error) {
	local, flying := f.LocalAt(elapsed)
	geo, err := f.frame.LocalToGeodetic(local)
	if err != nil {
		return model.GeodeticCoord{}, false, err
	}
	return geo, flying, nil
}

// PositionListener adapts the follower to a Ticker callback. emit receives
// the interpolated geodetic position and whether the vehicle is still flying;
// it stops being called once the path completes.
func (f *Follower) PositionListener(start time.Time, emit func(model.GeodeticCoord, bool)) func(time.Time) {
	finished := false
	return func(simTime time.Time) {
		if finished || emit == nil {
			return
		}
		geo, flying, err := f.GeodeticAt(simTime.Sub(start))
		if err != nil {
			return
		}
		emit(geo, flying)
		if !flying {
			finished = true
		}
	}
}
