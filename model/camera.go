package model

// CameraProfile describes the sensor and lens geometry used to derive
// ground footprints and flight-line spacing.
type CameraProfile struct {
	Name           string  `json:"name"`
	SensorWidthMM  float64 `json:"sensor_width_mm"`
	SensorHeightMM float64 `json:"sensor_height_mm"`
	ImageWidthPx   int     `json:"image_width_px"`
	ImageHeightPx  int     `json:"image_height_px"`
	FocalLengthMM  float64 `json:"focal_length_mm"`
}

// CameraPose is the camera attitude commanded at a waypoint.
type CameraPose struct {
	HeadingDeg     float64 // clockwise from north
	GimbalPitchDeg float64 // 0 = horizon, -90 = nadir
}
