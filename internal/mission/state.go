package mission

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cdav1990/OverWatch-sub009/core"
	"github.com/cdav1990/OverWatch-sub009/internal/logging"
	"github.com/cdav1990/OverWatch-sub009/kb"
	"github.com/cdav1990/OverWatch-sub009/model"
)

var (
	// ErrMissionNotFound indicates a requested mission was not found.
	ErrMissionNotFound = errors.New("mission not found")
	// ErrSegmentNotFound indicates a requested path segment was not found.
	ErrSegmentNotFound = errors.New("path segment not found")
	// ErrNoTelemetry indicates no vehicle position has been reported yet.
	ErrNoTelemetry = errors.New("no vehicle telemetry")
)

// State coordinates the mission store with per-mission local tangent frames,
// live vehicle telemetry, and optional persistence.
type State struct {
	// mu is the coarse state-level lock. Take this before touching the
	// store to maintain the global lock ordering of State -> store locks.
	mu sync.RWMutex

	// store is the in-memory mission knowledge base.
	store *kb.MissionStore

	// frames caches the ENU frame anchored at each mission's origin,
	// keyed by mission ID.
	frames map[string]*core.Frame

	// vehicles holds the latest reported vehicle position per mission.
	vehicles map[string]model.GeodeticCoord

	// persist is an optional durable mission store.
	persist Persister

	// log is an optional structured logger for state-level events.
	log logging.Logger

	// metrics is an optional recorder for Prometheus-friendly gauges.
	metrics MissionMetricsRecorder
}

// Snapshot captures a consistent view of all missions managed by State.
//
// The slice contains pointers owned by the underlying store; callers MUST
// treat them as read-only.
type Snapshot struct {
	Missions  []*model.Mission
	Segments  int
	Waypoints int
}

// MissionMetricsRecorder receives count updates for core mission entities.
type MissionMetricsRecorder interface {
	SetMissionCounts(missions, segments, waypoints int)
}

// Persister stores missions durably. Implementations must be safe for
// concurrent use.
type Persister interface {
	SaveMission(ctx context.Context, m *model.Mission) error
	DeleteMission(ctx context.Context, id string) error
}

// StateOption customises State construction.
type StateOption func(*State)

// WithPersister attaches a durable mission store that mirrors every
// successful mutation.
func WithPersister(p Persister) StateOption {
	return func(s *State) {
		s.persist = p
	}
}

// WithMetricsRecorder attaches an optional metrics recorder for entity counts.
func WithMetricsRecorder(m MissionMetricsRecorder) StateOption {
	return func(s *State) {
		s.metrics = m
	}
}

// NewState wires the mission store into a coordinated state layer.
func NewState(store *kb.MissionStore, log logging.Logger, opts ...StateOption) *State {
	if store == nil {
		store = kb.NewMissionStore()
	}
	if log == nil {
		log = logging.Noop()
	}
	state := &State{
		store:    store,
		frames:   make(map[string]*core.Frame),
		vehicles: make(map[string]model.GeodeticCoord),
		log:      log,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(state)
		}
	}
	state.updateMetricsLocked()
	return state
}

// Store exposes the underlying mission store.
func (s *State) Store() *kb.MissionStore {
	return s.store
}

// CreateMission registers a mission and anchors its local tangent frame at
// the mission origin.
func (s *State) CreateMission(ctx context.Context, m *model.Mission) error {
	if m == nil {
		return errors.New("mission is nil")
	}

	frame, err := core.NewFrame(m.Origin)
	if err != nil {
		return fmt.Errorf("anchor mission frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.CreateMission(m); err != nil {
		return err
	}
	s.frames[m.ID] = frame

	if err := s.persistLocked(ctx, m); err != nil {
		return err
	}

	s.updateMetricsLocked()
	s.log.Info(ctx, "mission created",
		logging.String("mission_id", m.ID),
		logging.String("name", m.Name),
	)
	return nil
}

// GetMission retrieves a mission by ID.
func (s *State) GetMission(id string) (*model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.store.GetMission(id)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrMissionNotFound, id)
	}
	return m, nil
}

// ListMissions returns all missions in the state.
func (s *State) ListMissions() []*model.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.ListMissions()
}

// Frame returns the ENU frame anchored at the mission's origin.
func (s *State) Frame(missionID string) (*core.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame, ok := s.frames[missionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissionNotFound, missionID)
	}
	return frame, nil
}

// AttachSegment appends a generated path segment to a mission.
func (s *State) AttachSegment(ctx context.Context, missionID string, seg *model.PathSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.store.GetMission(missionID)
	if m == nil {
		return fmt.Errorf("%w: %q", ErrMissionNotFound, missionID)
	}
	if err := s.store.AttachSegment(missionID, seg); err != nil {
		return err
	}

	if err := s.persistLocked(ctx, m); err != nil {
		return err
	}

	s.updateMetricsLocked()
	s.log.Info(ctx, "segment attached",
		logging.String("mission_id", missionID),
		logging.String("segment_id", seg.ID),
		logging.Int("waypoints", seg.WaypointCount()),
	)
	return nil
}

// ReplaceSegment swaps out an attached segment for a regenerated one.
func (s *State) ReplaceSegment(ctx context.Context, missionID, segmentID string, seg *model.PathSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.store.GetMission(missionID)
	if m == nil {
		return fmt.Errorf("%w: %q", ErrMissionNotFound, missionID)
	}
	if err := s.store.ReplaceSegment(missionID, segmentID, seg); err != nil {
		return fmt.Errorf("%w: %q", ErrSegmentNotFound, segmentID)
	}

	if err := s.persistLocked(ctx, m); err != nil {
		return err
	}

	s.updateMetricsLocked()
	return nil
}

// RemoveSegment detaches a segment from a mission.
func (s *State) RemoveSegment(ctx context.Context, missionID, segmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.store.GetMission(missionID)
	if m == nil {
		return fmt.Errorf("%w: %q", ErrMissionNotFound, missionID)
	}
	if err := s.store.RemoveSegment(missionID, segmentID); err != nil {
		return fmt.Errorf("%w: %q", ErrSegmentNotFound, segmentID)
	}

	if err := s.persistLocked(ctx, m); err != nil {
		return err
	}

	s.updateMetricsLocked()
	return nil
}

// DeleteMission removes a mission together with its frame and telemetry.
func (s *State) DeleteMission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.GetMission(id) == nil {
		return fmt.Errorf("%w: %q", ErrMissionNotFound, id)
	}
	if err := s.store.DeleteMission(id); err != nil {
		return err
	}
	delete(s.frames, id)
	delete(s.vehicles, id)

	if s.persist != nil {
		if err := s.persist.DeleteMission(ctx, id); err != nil {
			return fmt.Errorf("delete persisted mission: %w", err)
		}
	}

	s.updateMetricsLocked()
	s.log.Info(ctx, "mission deleted", logging.String("mission_id", id))
	return nil
}

// Snapshot returns a coherent view of the current mission state.
func (s *State) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, segments, waypoints := s.store.Counts()
	return &Snapshot{
		Missions:  s.store.ListMissions(),
		Segments:  segments,
		Waypoints: waypoints,
	}
}

// UpdateVehiclePosition records the latest vehicle telemetry for a mission.
func (s *State) UpdateVehiclePosition(missionID string, pos model.GeodeticCoord) error {
	if !pos.Valid() {
		return fmt.Errorf("vehicle position out of range: lat=%g lon=%g", pos.LatitudeDeg, pos.LongitudeDeg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store.GetMission(missionID) == nil {
		return fmt.Errorf("%w: %q", ErrMissionNotFound, missionID)
	}
	s.vehicles[missionID] = pos
	return nil
}

// VehicleLocalPose converts the last reported vehicle position into the
// mission's ENU frame.
func (s *State) VehicleLocalPose(missionID string) (model.LocalCoord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	frame, ok := s.frames[missionID]
	if !ok {
		return model.LocalCoord{}, fmt.Errorf("%w: %q", ErrMissionNotFound, missionID)
	}
	pos, ok := s.vehicles[missionID]
	if !ok {
		return model.LocalCoord{}, fmt.Errorf("%w for mission %q", ErrNoTelemetry, missionID)
	}
	return frame.GeodeticToLocal(pos)
}

// VehicleRenderPose converts the last reported vehicle position into the
// render frame used by visualization clients.
func (s *State) VehicleRenderPose(missionID string) (model.RenderCoord, error) {
	local, err := s.VehicleLocalPose(missionID)
	if err != nil {
		return model.RenderCoord{}, err
	}
	return core.ToRenderFrame(local), nil
}

// persistLocked mirrors the mission to the durable store when one is
// configured. Caller must hold s.mu.
func (s *State) persistLocked(ctx context.Context, m *model.Mission) error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist.SaveMission(ctx, m); err != nil {
		return fmt.Errorf("persist mission %q: %w", m.ID, err)
	}
	return nil
}

// updateMetricsLocked pushes entity counts to the metrics recorder.
// Caller must hold s.mu (read or write).
func (s *State) updateMetricsLocked() {
	if s.metrics == nil {
		return
	}
	missions, segments, waypoints := s.store.Counts()
	s.metrics.SetMissionCounts(missions, segments, waypoints)
}
