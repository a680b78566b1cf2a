// Package sqlite mirrors missions into a SQLite database so planned surveys
// survive process restarts. Geodetic and local coordinates are both stored;
// render-frame coordinates never are, they are derived on demand.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cdav1990/OverWatch-sub009/model"
)

//go:embed schema.sql
var schemaSQL string

// MissionDB persists missions, segments, and waypoints.
type MissionDB struct {
	db *sql.DB
}

// Open creates or opens the mission database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*MissionDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open mission db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply mission schema: %w", err)
	}
	return &MissionDB{db: db}, nil
}

// Close releases the underlying database handle.
func (m *MissionDB) Close() error {
	return m.db.Close()
}

// SaveMission writes the mission and everything attached to it in a single
// transaction, replacing any previously stored version.
func (m *MissionDB) SaveMission(ctx context.Context, mission *model.Mission) error {
	if mission == nil || mission.ID == "" {
		return fmt.Errorf("mission has no ID")
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	// Cascades remove the old segments and waypoints.
	if _, err := tx.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, mission.ID); err != nil {
		return fmt.Errorf("clear mission %q: %w", mission.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO missions (id, name, created_at_ns,
			origin_lat_deg, origin_lon_deg, origin_alt_m, origin_alt_ref,
			takeoff_e_m, takeoff_n_m, takeoff_u_m)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mission.ID, mission.Name, mission.CreatedAt.UnixNano(),
		mission.Origin.LatitudeDeg, mission.Origin.LongitudeDeg, mission.Origin.AltitudeM, int(mission.Origin.AltRef),
		mission.Takeoff.E, mission.Takeoff.N, mission.Takeoff.U,
	)
	if err != nil {
		return fmt.Errorf("insert mission %q: %w", mission.ID, err)
	}

	for i, seg := range mission.Segments {
		if err := insertSegment(ctx, tx, mission.ID, i, seg); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func insertSegment(ctx context.Context, tx *sql.Tx, missionID string, seq int, seg *model.PathSegment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO path_segments (id, mission_id, seq, type, speed_mps, mission_end)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seg.ID, missionID, seq, string(seg.Type), seg.SpeedMps, int(seg.MissionEnd),
	)
	if err != nil {
		return fmt.Errorf("insert segment %q: %w", seg.ID, err)
	}

	for i, wp := range seg.Waypoints {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO waypoints (segment_id, seq,
				lat_deg, lon_deg, alt_m, alt_ref,
				local_e_m, local_n_m, local_u_m,
				heading_deg, gimbal_pitch_deg, speed_mps, hold_time_ns, actions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seg.ID, i,
			wp.Geodetic.LatitudeDeg, wp.Geodetic.LongitudeDeg, wp.Geodetic.AltitudeM, int(wp.Geodetic.AltRef),
			wp.Local.E, wp.Local.N, wp.Local.U,
			wp.Camera.HeadingDeg, wp.Camera.GimbalPitchDeg,
			wp.SpeedMps, int64(wp.HoldTime), encodeActions(wp.Actions),
		)
		if err != nil {
			return fmt.Errorf("insert waypoint %d of segment %q: %w", i, seg.ID, err)
		}
	}
	return nil
}

// LoadMission reads a mission by ID, returning sql.ErrNoRows when absent.
func (m *MissionDB) LoadMission(ctx context.Context, id string) (*model.Mission, error) {
	var (
		mission   model.Mission
		createdNs int64
		originRef int
	)
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, created_at_ns,
			origin_lat_deg, origin_lon_deg, origin_alt_m, origin_alt_ref,
			takeoff_e_m, takeoff_n_m, takeoff_u_m
		FROM missions WHERE id = ?`, id,
	).Scan(
		&mission.ID, &mission.Name, &createdNs,
		&mission.Origin.LatitudeDeg, &mission.Origin.LongitudeDeg, &mission.Origin.AltitudeM, &originRef,
		&mission.Takeoff.E, &mission.Takeoff.N, &mission.Takeoff.U,
	)
	if err != nil {
		return nil, err
	}
	mission.CreatedAt = time.Unix(0, createdNs).UTC()
	mission.Origin.AltRef = model.AltitudeReference(originRef)

	segments, err := m.loadSegments(ctx, id)
	if err != nil {
		return nil, err
	}
	mission.Segments = segments
	return &mission, nil
}

// ListMissionIDs returns the IDs of every stored mission.
func (m *MissionDB) ListMissionIDs(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id FROM missions ORDER BY created_at_ns`)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteMission removes a mission and, via cascade, its segments and
// waypoints. Deleting an absent mission is not an error.
func (m *MissionDB) DeleteMission(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM missions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete mission %q: %w", id, err)
	}
	return nil
}

func (m *MissionDB) loadSegments(ctx context.Context, missionID string) ([]*model.PathSegment, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, type, speed_mps, mission_end
		FROM path_segments WHERE mission_id = ? ORDER BY seq`, missionID)
	if err != nil {
		return nil, fmt.Errorf("load segments of %q: %w", missionID, err)
	}
	defer rows.Close()

	var segments []*model.PathSegment
	for rows.Next() {
		var (
			seg     model.PathSegment
			segType string
			endAct  int
		)
		if err := rows.Scan(&seg.ID, &segType, &seg.SpeedMps, &endAct); err != nil {
			return nil, err
		}
		seg.Type = model.SegmentType(segType)
		seg.MissionEnd = model.MissionEndAction(endAct)
		segments = append(segments, &seg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, seg := range segments {
		waypoints, err := m.loadWaypoints(ctx, seg.ID)
		if err != nil {
			return nil, err
		}
		seg.Waypoints = waypoints
	}
	return segments, nil
}

func (m *MissionDB) loadWaypoints(ctx context.Context, segmentID string) ([]model.Waypoint, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT lat_deg, lon_deg, alt_m, alt_ref,
			local_e_m, local_n_m, local_u_m,
			heading_deg, gimbal_pitch_deg, speed_mps, hold_time_ns, actions
		FROM waypoints WHERE segment_id = ? ORDER BY seq`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("load waypoints of %q: %w", segmentID, err)
	}
	defer rows.Close()

	var waypoints []model.Waypoint
	for rows.Next() {
		var (
			wp      model.Waypoint
			altRef  int
			holdNs  int64
			actions string
		)
		err := rows.Scan(
			&wp.Geodetic.LatitudeDeg, &wp.Geodetic.LongitudeDeg, &wp.Geodetic.AltitudeM, &altRef,
			&wp.Local.E, &wp.Local.N, &wp.Local.U,
			&wp.Camera.HeadingDeg, &wp.Camera.GimbalPitchDeg,
			&wp.SpeedMps, &holdNs, &actions,
		)
		if err != nil {
			return nil, err
		}
		wp.Geodetic.AltRef = model.AltitudeReference(altRef)
		wp.HoldTime = time.Duration(holdNs)
		wp.Actions = decodeActions(actions)
		waypoints = append(waypoints, wp)
	}
	return waypoints, rows.Err()
}

func encodeActions(actions []model.WaypointAction) string {
	if len(actions) == 0 {
		return ""
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}

func decodeActions(encoded string) []model.WaypointAction {
	if encoded == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	actions := make([]model.WaypointAction, len(parts))
	for i, p := range parts {
		actions[i] = model.WaypointAction(p)
	}
	return actions
}
