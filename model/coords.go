package model

import "math"

// AltitudeReference indicates what a coordinate's altitude is measured against.
type AltitudeReference int

const (
	// AltitudeEllipsoidal is height above the WGS84 ellipsoid.
	AltitudeEllipsoidal AltitudeReference = iota
	// AltitudeRelative is height above the takeoff/ground surface (AGL).
	AltitudeRelative
)

func (r AltitudeReference) String() string {
	switch r {
	case AltitudeEllipsoidal:
		return "ellipsoidal"
	case AltitudeRelative:
		return "relative"
	}
	return "unknown"
}

// GeodeticCoord is a WGS84 position: latitude/longitude in degrees,
// altitude in metres tagged with its reference.
type GeodeticCoord struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64
	AltRef       AltitudeReference
}

// Valid reports whether latitude and longitude are inside their domains.
func (g GeodeticCoord) Valid() bool {
	return g.LatitudeDeg >= -90 && g.LatitudeDeg <= 90 &&
		g.LongitudeDeg >= -180 && g.LongitudeDeg <= 180
}

// EcefVector is an Earth-Centred-Earth-Fixed position in metres.
// It is always derived from a GeodeticCoord, never authored directly.
type EcefVector struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v EcefVector) Sub(other EcefVector) EcefVector {
	return EcefVector{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Add returns v + other.
func (v EcefVector) Add(other EcefVector) EcefVector {
	return EcefVector{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Norm returns the Euclidean norm of the vector.
func (v EcefVector) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LocalCoord is a position in a mission's local East-North-Up tangent frame,
// in metres relative to the mission's LocalOrigin. A LocalCoord is owned by
// the entity that embeds it and is meaningless under any other origin.
type LocalCoord struct {
	E float64 // east
	N float64 // north
	U float64 // up
}

// DistanceTo returns the straight-line distance to other in metres.
func (l LocalCoord) DistanceTo(other LocalCoord) float64 {
	de := l.E - other.E
	dn := l.N - other.N
	du := l.U - other.U
	return math.Sqrt(de*de + dn*dn + du*du)
}

// RenderCoord is a position in the consuming renderer's convention
// (x = east, y = up, z = north). Produced on demand; never persisted.
type RenderCoord struct {
	X, Y, Z float64
}
