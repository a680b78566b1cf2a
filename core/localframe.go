package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// Frame is a local East-North-Up tangent frame anchored at a fixed geodetic
// origin. The origin is captured once at construction and never changes:
// every LocalCoord produced by a Frame is only meaningful under that origin.
//
// A Frame is immutable after construction and safe for concurrent use.
type Frame struct {
	origin     model.GeodeticCoord
	originEcef model.EcefVector

	// rot rotates ECEF deltas into ENU; its rows are the east, north and up
	// unit vectors at the origin. The inverse rotation is its transpose.
	rot *mat.Dense
}

// NewFrame builds a local tangent frame at origin. The origin's altitude is
// treated as ellipsoidal height when computing the anchor point.
func NewFrame(origin model.GeodeticCoord) (*Frame, error) {
	originEcef, err := ToEcef(origin)
	if err != nil {
		return nil, fmt.Errorf("local frame origin: %w", err)
	}

	lat := origin.LatitudeDeg * degToRad
	lon := origin.LongitudeDeg * degToRad
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	rot := mat.NewDense(3, 3, []float64{
		-sinLon, cosLon, 0,
		-sinLat * cosLon, -sinLat * sinLon, cosLat,
		cosLat * cosLon, cosLat * sinLon, sinLat,
	})

	return &Frame{
		origin:     origin,
		originEcef: originEcef,
		rot:        rot,
	}, nil
}

// Origin returns the geodetic origin the frame is anchored at.
func (f *Frame) Origin() model.GeodeticCoord {
	return f.origin
}

// OriginEcef returns the ECEF position of the frame origin.
func (f *Frame) OriginEcef() model.EcefVector {
	return f.originEcef
}

// ToLocal expresses an ECEF point in the frame: R · (point - originEcef).
func (f *Frame) ToLocal(p model.EcefVector) model.LocalCoord {
	d := p.Sub(f.originEcef)

	var out mat.VecDense
	out.MulVec(f.rot, mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))

	return model.LocalCoord{E: out.AtVec(0), N: out.AtVec(1), U: out.AtVec(2)}
}

// ToEcef inverts ToLocal: Rᵀ · local + originEcef. The rotation is
// orthonormal, so the transpose is the exact inverse.
func (f *Frame) ToEcef(l model.LocalCoord) model.EcefVector {
	var out mat.VecDense
	out.MulVec(f.rot.T(), mat.NewVecDense(3, []float64{l.E, l.N, l.U}))

	return model.EcefVector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}.Add(f.originEcef)
}

// GeodeticToLocal chains the ellipsoidal transform with the tangent-frame
// rotation, expressing g in this frame.
func (f *Frame) GeodeticToLocal(g model.GeodeticCoord) (model.LocalCoord, error) {
	ecef, err := ToEcef(g)
	if err != nil {
		return model.LocalCoord{}, err
	}
	return f.ToLocal(ecef), nil
}

// LocalToGeodetic inverts GeodeticToLocal. The result carries the origin's
// altitude reference so waypoints stay tagged consistently with their mission.
func (f *Frame) LocalToGeodetic(l model.LocalCoord) (model.GeodeticCoord, error) {
	g, err := ToGeodetic(f.ToEcef(l))
	if err != nil {
		return model.GeodeticCoord{}, err
	}
	g.AltRef = f.origin.AltRef
	return g, nil
}
