package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// Request is everything needed to plan one survey segment.
type Request struct {
	MissionName string
	Origin      model.GeodeticCoord
	Takeoff     model.LocalCoord
	Camera      string
	SpeedMps    float64
	HoldTime    time.Duration
	Coverage    model.CoverageParams
	Safety      model.SafetyParams
}

// requestFile is the on-disk JSON shape of a plan request. Enumerations are
// spelled out as strings so request files stay hand-editable.
type requestFile struct {
	MissionName string  `json:"mission_name"`
	Camera      string  `json:"camera"`
	SpeedMps    float64 `json:"speed_mps"`
	HoldTimeS   float64 `json:"hold_time_s"`

	Origin struct {
		LatitudeDeg  float64 `json:"latitude_deg"`
		LongitudeDeg float64 `json:"longitude_deg"`
		AltitudeM    float64 `json:"altitude_m"`
	} `json:"origin"`

	Takeoff struct {
		E float64 `json:"east_m"`
		N float64 `json:"north_m"`
		U float64 `json:"up_m"`
	} `json:"takeoff"`

	Coverage struct {
		AltitudeAGLM    float64 `json:"altitude_agl_m"`
		OverlapFraction float64 `json:"overlap_fraction"`
		Orientation     string  `json:"orientation"`
		Snake           bool    `json:"snake"`
		PatternLengthM  float64 `json:"pattern_length_m"`
		LineSpacingM    float64 `json:"line_spacing_m"`
		NumberOfLines   int     `json:"number_of_lines"`
	} `json:"coverage"`

	Safety struct {
		MissionEnd    string  `json:"mission_end"`
		RTLAltitudeM  float64 `json:"rtl_altitude_m"`
		ClimbSpeedMps float64 `json:"climb_speed_mps"`
	} `json:"safety"`
}

// LoadRequest parses a plan request from JSON.
func LoadRequest(r io.Reader) (*Request, error) {
	var file requestFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode plan request: %w", err)
	}

	orientation, err := orientationFromString(file.Coverage.Orientation)
	if err != nil {
		return nil, err
	}
	missionEnd, err := missionEndFromString(file.Safety.MissionEnd)
	if err != nil {
		return nil, err
	}

	return &Request{
		MissionName: file.MissionName,
		Camera:      file.Camera,
		SpeedMps:    file.SpeedMps,
		HoldTime:    time.Duration(file.HoldTimeS * float64(time.Second)),
		Origin: model.GeodeticCoord{
			LatitudeDeg:  file.Origin.LatitudeDeg,
			LongitudeDeg: file.Origin.LongitudeDeg,
			AltitudeM:    file.Origin.AltitudeM,
		},
		Takeoff: model.LocalCoord{E: file.Takeoff.E, N: file.Takeoff.N, U: file.Takeoff.U},
		Coverage: model.CoverageParams{
			AltitudeAGLM:    file.Coverage.AltitudeAGLM,
			OverlapFraction: file.Coverage.OverlapFraction,
			Orientation:     orientation,
			Snake:           file.Coverage.Snake,
			PatternLengthM:  file.Coverage.PatternLengthM,
			LineSpacingM:    file.Coverage.LineSpacingM,
			NumberOfLines:   file.Coverage.NumberOfLines,
		},
		Safety: model.SafetyParams{
			MissionEnd:    missionEnd,
			RTLAltitudeM:  file.Safety.RTLAltitudeM,
			ClimbSpeedMps: file.Safety.ClimbSpeedMps,
		},
	}, nil
}

func orientationFromString(s string) (model.Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal":
		return model.OrientationHorizontal, nil
	case "vertical":
		return model.OrientationVertical, nil
	default:
		return 0, fmt.Errorf("%w: unknown orientation %q", ErrInvalidRequest, s)
	}
}

func missionEndFromString(s string) (model.MissionEndAction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "RTL":
		return model.MissionEndRTL, nil
	case "LAND":
		return model.MissionEndLand, nil
	case "HOLD":
		return model.MissionEndHold, nil
	default:
		return 0, fmt.Errorf("%w: unknown mission end action %q", ErrInvalidRequest, s)
	}
}
