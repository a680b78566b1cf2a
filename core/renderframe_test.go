package core

import (
	"math"
	"testing"

	"github.com/cdav1990/OverWatch-sub009/model"
)

func TestRenderFrame_RoundTrip(t *testing.T) {
	l := model.LocalCoord{E: 1.5, N: -2.25, U: 3.75}

	r := ToRenderFrame(l)
	if r.X != l.E || r.Y != l.U || r.Z != l.N {
		t.Fatalf("ToRenderFrame(%+v) = %+v", l, r)
	}

	// Pure axis permutation: the inverse must be bit-exact.
	if back := FromRenderFrame(r); back != l {
		t.Errorf("FromRenderFrame(ToRenderFrame(%+v)) = %+v", l, back)
	}
}

func TestHeadingToRender(t *testing.T) {
	cases := []struct {
		enu    float64
		render float64
	}{
		{0, 90},    // north -> 90deg ccw from east
		{90, 0},    // east -> renderer forward
		{180, 270}, // south
		{270, 180}, // west
		{45, 45},
	}

	for _, c := range cases {
		if got := HeadingToRender(c.enu); math.Abs(got-c.render) > 1e-12 {
			t.Errorf("HeadingToRender(%v) = %v, want %v", c.enu, got, c.render)
		}
		// The offset-and-reverse conversion is self-inverse.
		if got := HeadingFromRender(c.render); math.Abs(got-c.enu) > 1e-12 {
			t.Errorf("HeadingFromRender(%v) = %v, want %v", c.render, got, c.enu)
		}
	}
}

func TestNormalizeHeadingDeg(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-90, 270},
		{360, 0},
		{725, 5},
		{0, 0},
	}
	for _, c := range cases {
		if got := NormalizeHeadingDeg(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("NormalizeHeadingDeg(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
