package core

import (
	"errors"
	"math"
	"testing"

	"github.com/cdav1990/OverWatch-sub009/model"
)

func testOrigin() model.GeodeticCoord {
	return model.GeodeticCoord{LatitudeDeg: 37.3318, LongitudeDeg: -122.0312, AltitudeM: 25}
}

func TestFrame_OriginIdentity(t *testing.T) {
	frame, err := NewFrame(testOrigin())
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	l, err := frame.GeodeticToLocal(testOrigin())
	if err != nil {
		t.Fatalf("GeodeticToLocal: %v", err)
	}

	// The origin must map to (0,0,0) up to floating noise from the chained
	// ellipsoidal transforms.
	if math.Abs(l.E) > 1e-6 || math.Abs(l.N) > 1e-6 || math.Abs(l.U) > 1e-6 {
		t.Errorf("origin maps to (%v, %v, %v), want (0,0,0)", l.E, l.N, l.U)
	}
}

func TestFrame_RoundTripIdempotence(t *testing.T) {
	frame, err := NewFrame(testOrigin())
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	points := []model.GeodeticCoord{
		{LatitudeDeg: 37.3320, LongitudeDeg: -122.0310, AltitudeM: 120},
		{LatitudeDeg: 37.3300, LongitudeDeg: -122.0350, AltitudeM: 80},
		{LatitudeDeg: 37.3400, LongitudeDeg: -122.0200, AltitudeM: 25},
	}

	for _, p := range points {
		l, err := frame.GeodeticToLocal(p)
		if err != nil {
			t.Fatalf("GeodeticToLocal(%+v): %v", p, err)
		}
		back, err := frame.LocalToGeodetic(l)
		if err != nil {
			t.Fatalf("LocalToGeodetic: %v", err)
		}

		if math.Abs(back.LatitudeDeg-p.LatitudeDeg) > 1e-6 ||
			math.Abs(back.LongitudeDeg-p.LongitudeDeg) > 1e-6 {
			t.Errorf("lat/lon round trip %+v -> %+v", p, back)
		}
		if math.Abs(back.AltitudeM-p.AltitudeM) > 1e-3 {
			t.Errorf("alt round trip %v -> %v", p.AltitudeM, back.AltitudeM)
		}
	}
}

func TestFrame_UpAxisMatchesAltitude(t *testing.T) {
	origin := testOrigin()
	frame, err := NewFrame(origin)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	raised := origin
	raised.AltitudeM += 100

	l, err := frame.GeodeticToLocal(raised)
	if err != nil {
		t.Fatalf("GeodeticToLocal: %v", err)
	}
	if math.Abs(l.U-100) > 1e-6 {
		t.Errorf("U = %v, want 100", l.U)
	}
	if math.Abs(l.E) > 1e-6 || math.Abs(l.N) > 1e-6 {
		t.Errorf("E,N = %v,%v, want 0,0 for a purely vertical displacement", l.E, l.N)
	}
}

func TestFrame_NorthDisplacement(t *testing.T) {
	origin := testOrigin()
	frame, err := NewFrame(origin)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	// One arcsecond of latitude is ~30.8 m of northing at any longitude.
	north := origin
	north.LatitudeDeg += 1.0 / 3600.0

	l, err := frame.GeodeticToLocal(north)
	if err != nil {
		t.Fatalf("GeodeticToLocal: %v", err)
	}
	if l.N < 30 || l.N > 32 {
		t.Errorf("N = %v, want ~30.8m for one arcsecond of latitude", l.N)
	}
	if math.Abs(l.E) > 0.1 {
		t.Errorf("E = %v, want ~0 for a pure latitude change", l.E)
	}
}

func TestFrame_EcefInverseIsTranspose(t *testing.T) {
	frame, err := NewFrame(testOrigin())
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	local := model.LocalCoord{E: 123.4, N: -56.7, U: 89.1}
	back := frame.ToLocal(frame.ToEcef(local))

	if math.Abs(back.E-local.E) > 1e-9 ||
		math.Abs(back.N-local.N) > 1e-9 ||
		math.Abs(back.U-local.U) > 1e-9 {
		t.Errorf("ToLocal(ToEcef(%+v)) = %+v", local, back)
	}
}

func TestNewFrame_InvalidOrigin(t *testing.T) {
	if _, err := NewFrame(model.GeodeticCoord{LatitudeDeg: 95}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("NewFrame error = %v, want ErrOutOfRange", err)
	}
}

func TestFrame_AltitudeReferencePropagates(t *testing.T) {
	origin := testOrigin()
	origin.AltRef = model.AltitudeRelative
	frame, err := NewFrame(origin)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	g, err := frame.LocalToGeodetic(model.LocalCoord{E: 10, N: 10, U: 50})
	if err != nil {
		t.Fatalf("LocalToGeodetic: %v", err)
	}
	if g.AltRef != model.AltitudeRelative {
		t.Errorf("AltRef = %v, want the origin's reference", g.AltRef)
	}
}
