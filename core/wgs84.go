package core

import (
	"fmt"
	"math"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// WGS84 ellipsoid constants.
const (
	// WGS84SemiMajorM is the ellipsoid semi-major axis in metres.
	WGS84SemiMajorM = 6378137.0
	// WGS84Flattening is the ellipsoid flattening 1/298.257223563.
	WGS84Flattening = 1.0 / 298.257223563
)

var (
	wgs84SemiMinorM = WGS84SemiMajorM * (1.0 - WGS84Flattening)
	// First eccentricity squared: e² = f(2-f).
	wgs84E2 = WGS84Flattening * (2.0 - WGS84Flattening)
	// Second eccentricity squared: e'² = e²/(1-e²).
	wgs84EP2 = wgs84E2 / (1.0 - wgs84E2)
)

const degToRad = math.Pi / 180.0
const radToDeg = 180.0 / math.Pi

// ToEcef converts a geodetic coordinate to ECEF metres using the closed-form
// WGS84 mapping. The altitude is used as ellipsoidal height regardless of its
// reference tag; resolving a relative altitude against a surface height is the
// caller's concern.
func ToEcef(g model.GeodeticCoord) (model.EcefVector, error) {
	if !g.Valid() {
		return model.EcefVector{}, fmt.Errorf("%w: lat=%g lon=%g", ErrOutOfRange, g.LatitudeDeg, g.LongitudeDeg)
	}

	lat := g.LatitudeDeg * degToRad
	lon := g.LongitudeDeg * degToRad
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Prime vertical radius of curvature.
	n := WGS84SemiMajorM / math.Sqrt(1.0-wgs84E2*sinLat*sinLat)

	return model.EcefVector{
		X: (n + g.AltitudeM) * cosLat * math.Cos(lon),
		Y: (n + g.AltitudeM) * cosLat * math.Sin(lon),
		Z: (n*(1.0-wgs84E2) + g.AltitudeM) * sinLat,
	}, nil
}

// ToGeodetic inverts ToEcef using Bowring's method, which is accurate to well
// under a millimetre for altitudes within atmospheric flight range. The
// returned coordinate carries an ellipsoidal altitude reference.
func ToGeodetic(v model.EcefVector) (model.GeodeticCoord, error) {
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) ||
		math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) || math.IsInf(v.Z, 0) {
		return model.GeodeticCoord{}, fmt.Errorf("%w: non-finite ECEF vector", ErrOutOfRange)
	}

	p := math.Hypot(v.X, v.Y)

	// On the polar axis longitude is undefined; report it as zero.
	if p < 1e-9 {
		if math.Abs(v.Z) < 1e-9 {
			return model.GeodeticCoord{}, fmt.Errorf("%w: ECEF vector at Earth centre", ErrOutOfRange)
		}
		lat := math.Copysign(90.0, v.Z)
		return model.GeodeticCoord{
			LatitudeDeg:  lat,
			LongitudeDeg: 0,
			AltitudeM:    math.Abs(v.Z) - wgs84SemiMinorM,
			AltRef:       model.AltitudeEllipsoidal,
		}, nil
	}

	lon := math.Atan2(v.Y, v.X)

	// Bowring's parametric latitude seed.
	theta := math.Atan2(v.Z*WGS84SemiMajorM, p*wgs84SemiMinorM)
	sinTheta := math.Sin(theta)
	cosTheta := math.Cos(theta)

	lat := math.Atan2(
		v.Z+wgs84EP2*wgs84SemiMinorM*sinTheta*sinTheta*sinTheta,
		p-wgs84E2*WGS84SemiMajorM*cosTheta*cosTheta*cosTheta,
	)

	sinLat := math.Sin(lat)
	n := WGS84SemiMajorM / math.Sqrt(1.0-wgs84E2*sinLat*sinLat)
	alt := p/math.Cos(lat) - n

	return model.GeodeticCoord{
		LatitudeDeg:  lat * radToDeg,
		LongitudeDeg: lon * radToDeg,
		AltitudeM:    alt,
		AltRef:       model.AltitudeEllipsoidal,
	}, nil
}
