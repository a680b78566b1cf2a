package planner

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cdav1990/OverWatch-sub009/model"
)

const sampleRequestJSON = `{
	"mission_name": "vineyard rows",
	"camera": "fullframe-50",
	"speed_mps": 6,
	"hold_time_s": 1.5,
	"origin": {
		"latitude_deg": 38.2975,
		"longitude_deg": -122.2869,
		"altitude_m": 14
	},
	"takeoff": {
		"east_m": 2,
		"north_m": -3,
		"up_m": 0
	},
	"coverage": {
		"altitude_agl_m": 80,
		"overlap_fraction": 0.75,
		"orientation": "vertical",
		"snake": true,
		"pattern_length_m": 150,
		"number_of_lines": 6
	},
	"safety": {
		"mission_end": "LAND",
		"climb_speed_mps": 2
	}
}`

func TestLoadRequest(t *testing.T) {
	req, err := LoadRequest(strings.NewReader(sampleRequestJSON))
	if err != nil {
		t.Fatalf("LoadRequest: %v", err)
	}

	if req.MissionName != "vineyard rows" || req.Camera != "fullframe-50" {
		t.Errorf("identity fields = %q / %q", req.MissionName, req.Camera)
	}
	if req.HoldTime != 1500*time.Millisecond {
		t.Errorf("HoldTime = %v, want 1.5s", req.HoldTime)
	}
	if req.Origin.LatitudeDeg != 38.2975 || req.Takeoff.N != -3 {
		t.Errorf("coordinates not decoded: origin=%+v takeoff=%+v", req.Origin, req.Takeoff)
	}
	if req.Coverage.Orientation != model.OrientationVertical {
		t.Errorf("Orientation = %v, want vertical", req.Coverage.Orientation)
	}
	if req.Coverage.NumberOfLines != 6 || !req.Coverage.Snake {
		t.Errorf("coverage = %+v", req.Coverage)
	}
	if req.Safety.MissionEnd != model.MissionEndLand {
		t.Errorf("MissionEnd = %v, want LAND", req.Safety.MissionEnd)
	}

	if err := ValidateRequest(req); err != nil {
		t.Errorf("loaded request fails validation: %v", err)
	}
}

func TestLoadRequest_Defaults(t *testing.T) {
	req, err := LoadRequest(strings.NewReader(`{"mission_name": "minimal"}`))
	if err != nil {
		t.Fatalf("LoadRequest: %v", err)
	}
	if req.Coverage.Orientation != model.OrientationHorizontal {
		t.Errorf("default orientation = %v, want horizontal", req.Coverage.Orientation)
	}
	if req.Safety.MissionEnd != model.MissionEndRTL {
		t.Errorf("default mission end = %v, want RTL", req.Safety.MissionEnd)
	}
}

func TestLoadRequest_Malformed(t *testing.T) {
	cases := map[string]string{
		"truncated":           `{"mission_name":`,
		"unknown field":       `{"mission": "x"}`,
		"bad orientation":     `{"coverage": {"orientation": "diagonal"}}`,
		"bad mission end":     `{"safety": {"mission_end": "EXPLODE"}}`,
		"wrong altitude type": `{"origin": {"altitude_m": "high"}}`,
	}
	for name, input := range cases {
		if _, err := LoadRequest(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestValidateRequest(t *testing.T) {
	valid := func() *Request {
		return &Request{
			MissionName: "ok",
			Origin:      model.GeodeticCoord{LatitudeDeg: 45, LongitudeDeg: 9},
			Camera:      "cam",
			SpeedMps:    5,
			Coverage: model.CoverageParams{
				AltitudeAGLM:    50,
				OverlapFraction: 0.7,
				PatternLengthM:  100,
				NumberOfLines:   3,
			},
			Safety: model.SafetyParams{MissionEnd: model.MissionEndRTL, RTLAltitudeM: 40},
		}
	}
	if err := ValidateRequest(valid()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"empty name", func(r *Request) { r.MissionName = "  " }},
		{"bad origin", func(r *Request) { r.Origin.LatitudeDeg = -91 }},
		{"no camera", func(r *Request) { r.Camera = "" }},
		{"zero speed", func(r *Request) { r.SpeedMps = 0 }},
		{"zero altitude", func(r *Request) { r.Coverage.AltitudeAGLM = 0 }},
		{"overlap too high", func(r *Request) { r.Coverage.OverlapFraction = 1 }},
		{"overlap too low", func(r *Request) { r.Coverage.OverlapFraction = 0 }},
		{"zero length", func(r *Request) { r.Coverage.PatternLengthM = 0 }},
		{"zero lines", func(r *Request) { r.Coverage.NumberOfLines = 0 }},
		{"negative spacing", func(r *Request) { r.Coverage.LineSpacingM = -1 }},
		{"bad orientation", func(r *Request) { r.Coverage.Orientation = model.Orientation(9) }},
		{"bad mission end", func(r *Request) { r.Safety.MissionEnd = model.MissionEndAction(9) }},
		{"negative rtl altitude", func(r *Request) { r.Safety.RTLAltitudeM = -5 }},
		{"negative climb speed", func(r *Request) { r.Safety.ClimbSpeedMps = -1 }},
	}
	for _, tc := range cases {
		req := valid()
		tc.mutate(req)
		if err := ValidateRequest(req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%s: error = %v, want ErrInvalidRequest", tc.name, err)
		}
	}

	if err := ValidateRequest(nil); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("nil request: error = %v, want ErrInvalidRequest", err)
	}
}
