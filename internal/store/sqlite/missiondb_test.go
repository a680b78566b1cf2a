package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cdav1990/OverWatch-sub009/model"
)

func openTestDB(t *testing.T) *MissionDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "missions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMission() *model.Mission {
	return &model.Mission{
		ID:        "m-1",
		Name:      "orchard survey",
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Origin: model.GeodeticCoord{
			LatitudeDeg:  47.6062,
			LongitudeDeg: -122.3321,
			AltitudeM:    52.5,
		},
		Takeoff: model.LocalCoord{E: 1.5, N: -2.25, U: 0},
		Segments: []*model.PathSegment{
			{
				ID:         "s-1",
				Type:       model.SegmentTypeGrid,
				SpeedMps:   8,
				MissionEnd: model.MissionEndRTL,
				Waypoints: []model.Waypoint{
					{
						Geodetic: model.GeodeticCoord{LatitudeDeg: 47.6063, LongitudeDeg: -122.3320, AltitudeM: 92.5},
						Local:    model.LocalCoord{E: 7.5, N: 11.1, U: 40},
						Camera:   model.CameraPose{HeadingDeg: 90, GimbalPitchDeg: -90},
						SpeedMps: 8,
						Actions:  []model.WaypointAction{model.ActionTriggerCamera},
					},
					{
						Geodetic: model.GeodeticCoord{LatitudeDeg: 47.6064, LongitudeDeg: -122.3310, AltitudeM: 92.5},
						Local:    model.LocalCoord{E: 82.5, N: 11.1, U: 40},
						Camera:   model.CameraPose{HeadingDeg: 90, GimbalPitchDeg: -90},
						SpeedMps: 8,
						HoldTime: 2 * time.Second,
						Actions:  []model.WaypointAction{model.ActionStartInterval, model.ActionStopInterval},
					},
				},
			},
		},
	}
}

func TestSaveAndLoadMission(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	want := sampleMission()

	if err := db.SaveMission(ctx, want); err != nil {
		t.Fatalf("SaveMission: %v", err)
	}
	got, err := db.LoadMission(ctx, want.ID)
	if err != nil {
		t.Fatalf("LoadMission: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mission round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveMissionReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := sampleMission()

	if err := db.SaveMission(ctx, m); err != nil {
		t.Fatalf("SaveMission: %v", err)
	}

	m.Name = "orchard survey v2"
	m.Segments = m.Segments[:0]
	if err := db.SaveMission(ctx, m); err != nil {
		t.Fatalf("second SaveMission: %v", err)
	}

	got, err := db.LoadMission(ctx, m.ID)
	if err != nil {
		t.Fatalf("LoadMission: %v", err)
	}
	if got.Name != "orchard survey v2" {
		t.Errorf("Name = %q, want updated name", got.Name)
	}
	if len(got.Segments) != 0 {
		t.Errorf("stale segments survived replace: %d", len(got.Segments))
	}
}

func TestLoadMissionAbsent(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.LoadMission(context.Background(), "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("LoadMission error = %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteMissionCascades(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := sampleMission()

	if err := db.SaveMission(ctx, m); err != nil {
		t.Fatalf("SaveMission: %v", err)
	}
	if err := db.DeleteMission(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMission: %v", err)
	}

	var waypoints int
	if err := db.db.QueryRow(`SELECT COUNT(*) FROM waypoints`).Scan(&waypoints); err != nil {
		t.Fatalf("count waypoints: %v", err)
	}
	if waypoints != 0 {
		t.Errorf("waypoints after cascade delete = %d, want 0", waypoints)
	}

	// Idempotent.
	if err := db.DeleteMission(ctx, m.ID); err != nil {
		t.Fatalf("second DeleteMission: %v", err)
	}
}

func TestListMissionIDsOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	first := sampleMission()
	second := sampleMission()
	second.ID = "m-2"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	second.Segments = nil

	if err := db.SaveMission(ctx, second); err != nil {
		t.Fatalf("SaveMission: %v", err)
	}
	if err := db.SaveMission(ctx, first); err != nil {
		t.Fatalf("SaveMission: %v", err)
	}

	ids, err := db.ListMissionIDs(ctx)
	if err != nil {
		t.Fatalf("ListMissionIDs: %v", err)
	}
	if diff := cmp.Diff([]string{"m-1", "m-2"}, ids); diff != "" {
		t.Errorf("IDs (-want +got):\n%s", diff)
	}
}
