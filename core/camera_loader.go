// core/camera_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// CameraCatalog is the set of camera profiles available for planning,
// typically loaded once at startup from configs/cameras.json.
type CameraCatalog struct {
	profiles []model.CameraProfile
}

// LoadCameraCatalog reads a JSON array of camera profiles from r.
//
// It deliberately fails only on JSON / structural errors plus obviously
// unusable entries (empty name, non-positive geometry); detailed parameter
// validation stays with ComputeFootprint where the values are consumed.
func LoadCameraCatalog(r io.Reader) (*CameraCatalog, error) {
	var profiles []model.CameraProfile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&profiles); err != nil {
		return nil, fmt.Errorf("LoadCameraCatalog: decode failed: %w", err)
	}

	for _, p := range profiles {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("LoadCameraCatalog: camera profile with empty name")
		}
		if p.SensorWidthMM <= 0 || p.SensorHeightMM <= 0 || p.FocalLengthMM <= 0 {
			return nil, fmt.Errorf("LoadCameraCatalog: camera %q has non-positive geometry", p.Name)
		}
	}

	return &CameraCatalog{profiles: profiles}, nil
}

// Profiles returns all loaded profiles in file order.
func (c *CameraCatalog) Profiles() []model.CameraProfile {
	return c.profiles
}

// Find returns the profile with the given name, matched case-insensitively.
func (c *CameraCatalog) Find(name string) (model.CameraProfile, bool) {
	for _, p := range c.profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return model.CameraProfile{}, false
}
