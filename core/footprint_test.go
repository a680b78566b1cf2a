package core

import (
	"errors"
	"math"
	"testing"

	"github.com/cdav1990/OverWatch-sub009/model"
)

func fullFrameCamera() model.CameraProfile {
	return model.CameraProfile{
		Name:           "full-frame-50mm",
		SensorWidthMM:  36,
		SensorHeightMM: 24,
		ImageWidthPx:   6000,
		ImageHeightPx:  4000,
		FocalLengthMM:  50,
	}
}

func TestComputeFootprint_KnownValues(t *testing.T) {
	fp, err := ComputeFootprint(fullFrameCamera(), 100)
	if err != nil {
		t.Fatalf("ComputeFootprint: %v", err)
	}

	// gsd = (36/6000) * 100 * 100 / 50 = 1.2 cm/px
	if math.Abs(fp.GSDCmPerPx-1.2) > 1e-9 {
		t.Errorf("GSD = %v, want 1.2 cm/px", fp.GSDCmPerPx)
	}
	// width = 1.2 * 6000 / 100 = 72 m; height = 24/36 of that = 48 m.
	if math.Abs(fp.WidthM-72) > 1e-9 {
		t.Errorf("WidthM = %v, want 72", fp.WidthM)
	}
	if math.Abs(fp.HeightM-48) > 1e-9 {
		t.Errorf("HeightM = %v, want 48", fp.HeightM)
	}
}

func TestComputeFootprint_ScalesLinearlyWithAltitude(t *testing.T) {
	cam := fullFrameCamera()

	low, err := ComputeFootprint(cam, 80)
	if err != nil {
		t.Fatalf("ComputeFootprint(80): %v", err)
	}
	high, err := ComputeFootprint(cam, 160)
	if err != nil {
		t.Fatalf("ComputeFootprint(160): %v", err)
	}

	if math.Abs(high.WidthM-2*low.WidthM) > 1e-9 {
		t.Errorf("doubling altitude: width %v -> %v, want doubled", low.WidthM, high.WidthM)
	}
	if math.Abs(high.HeightM-2*low.HeightM) > 1e-9 {
		t.Errorf("doubling altitude: height %v -> %v, want doubled", low.HeightM, high.HeightM)
	}
	if math.Abs(high.GSDCmPerPx-2*low.GSDCmPerPx) > 1e-9 {
		t.Errorf("doubling altitude: GSD %v -> %v, want doubled", low.GSDCmPerPx, high.GSDCmPerPx)
	}
}

func TestComputeFootprint_InvalidParameters(t *testing.T) {
	cam := fullFrameCamera()

	bad := cam
	bad.FocalLengthMM = 0
	if _, err := ComputeFootprint(bad, 100); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero focal length error = %v, want ErrInvalidParameter", err)
	}

	if _, err := ComputeFootprint(cam, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero altitude error = %v, want ErrInvalidParameter", err)
	}
	if _, err := ComputeFootprint(cam, -50); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative altitude error = %v, want ErrInvalidParameter", err)
	}

	bad = cam
	bad.ImageWidthPx = 0
	if _, err := ComputeFootprint(bad, 100); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero image width error = %v, want ErrInvalidParameter", err)
	}
}

func TestComputeLineSpacing_FromOverlap(t *testing.T) {
	// The oracle is the closed-form expected value for 36mm/50mm/100m/6000px/0.8:
	// gsd = (36/6000)*100*100/50 = 1.2; width = 72m; spacing = 72*(1-0.8).
	fp, err := ComputeFootprint(fullFrameCamera(), 100)
	if err != nil {
		t.Fatalf("ComputeFootprint: %v", err)
	}

	spacing, err := ComputeLineSpacing(fp.WidthM, 0.8)
	if err != nil {
		t.Fatalf("ComputeLineSpacing: %v", err)
	}
	if want := 72.0 * 0.2; math.Abs(spacing-want) > 1e-9 {
		t.Errorf("spacing = %v, want %v", spacing, want)
	}
}

func TestComputeLineSpacing_OverlapBounds(t *testing.T) {
	for _, overlap := range []float64{0, 1, -0.2, 1.5} {
		if _, err := ComputeLineSpacing(72, overlap); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("overlap %v error = %v, want ErrInvalidParameter", overlap, err)
		}
	}
	if _, err := ComputeLineSpacing(0, 0.8); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero dimension error = %v, want ErrInvalidParameter", err)
	}
}
