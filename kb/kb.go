package kb

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cdav1990/OverWatch-sub009/model"
)

// EventType indicates what kind of change happened in the store.
type EventType int

const (
	EventMissionCreated EventType = iota
	EventSegmentAttached
	EventSegmentReplaced
	EventSegmentRemoved
	EventMissionDeleted
)

// Event is emitted to subscribers when something interesting happens.
type Event struct {
	Type      EventType
	MissionID string
	SegmentID string
}

// MissionStore is an in-memory, thread-safe store for missions and their
// path segments. Each mission's LocalOrigin is fixed at creation time and
// never changes afterwards; segments are immutable once attached except
// through explicit replacement.
type MissionStore struct {
	mu sync.RWMutex

	missions map[string]*model.Mission

	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(Event)
}

// NewMissionStore constructs an empty store.
func NewMissionStore() *MissionStore {
	return &MissionStore{
		missions: make(map[string]*model.Mission),
	}
}

// CreateMission adds a new mission. An empty ID is assigned a fresh UUID.
// It returns an error if the ID already exists or the origin is outside the
// valid geodetic domain; the origin is immutable from here on.
func (s *MissionStore) CreateMission(m *model.Mission) error {
	if m == nil {
		return fmt.Errorf("nil mission")
	}
	if !m.Origin.Valid() {
		return fmt.Errorf("mission origin out of range: lat=%g lon=%g", m.Origin.LatitudeDeg, m.Origin.LongitudeDeg)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	if _, exists := s.missions[m.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("mission with ID %q already exists", m.ID)
	}
	s.missions[m.ID] = m
	subs := append([]subscriber{}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventMissionCreated, MissionID: m.ID})
	return nil
}

// GetMission returns the mission with the given ID, or nil if not found.
func (s *MissionStore) GetMission(id string) *model.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.missions[id]
}

// ListMissions returns a snapshot slice of all missions.
func (s *MissionStore) ListMissions() []*model.Mission {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]*model.Mission, 0, len(s.missions))
	for _, m := range s.missions {
		res = append(res, m)
	}
	return res
}

// AttachSegment appends a segment to a mission's flight plan.
func (s *MissionStore) AttachSegment(missionID string, seg *model.PathSegment) error {
	if seg == nil {
		return fmt.Errorf("nil segment")
	}

	s.mu.Lock()
	m, ok := s.missions[missionID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("mission with ID %q not found", missionID)
	}
	if seg.ID == "" {
		seg.ID = uuid.New().String()
	}
	for _, existing := range m.Segments {
		if existing.ID == seg.ID {
			s.mu.Unlock()
			return fmt.Errorf("segment with ID %q already attached", seg.ID)
		}
	}
	m.Segments = append(m.Segments, seg)
	subs := append([]subscriber{}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventSegmentAttached, MissionID: missionID, SegmentID: seg.ID})
	return nil
}

// ReplaceSegment swaps an attached segment for a new value. This is the only
// sanctioned mutation of an attached segment.
func (s *MissionStore) ReplaceSegment(missionID, segmentID string, seg *model.PathSegment) error {
	if seg == nil {
		return fmt.Errorf("nil segment")
	}

	s.mu.Lock()
	m, ok := s.missions[missionID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("mission with ID %q not found", missionID)
	}
	idx := -1
	for i, existing := range m.Segments {
		if existing.ID == segmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("segment with ID %q not found in mission %q", segmentID, missionID)
	}
	seg.ID = segmentID
	m.Segments[idx] = seg
	subs := append([]subscriber{}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventSegmentReplaced, MissionID: missionID, SegmentID: segmentID})
	return nil
}

// RemoveSegment detaches a segment from a mission.
func (s *MissionStore) RemoveSegment(missionID, segmentID string) error {
	s.mu.Lock()
	m, ok := s.missions[missionID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("mission with ID %q not found", missionID)
	}
	idx := -1
	for i, existing := range m.Segments {
		if existing.ID == segmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("segment with ID %q not found in mission %q", segmentID, missionID)
	}
	m.Segments = append(m.Segments[:idx], m.Segments[idx+1:]...)
	subs := append([]subscriber{}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventSegmentRemoved, MissionID: missionID, SegmentID: segmentID})
	return nil
}

// DeleteMission removes a mission and everything attached to it.
func (s *MissionStore) DeleteMission(id string) error {
	s.mu.Lock()
	if _, ok := s.missions[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("mission with ID %q not found", id)
	}
	delete(s.missions, id)
	subs := append([]subscriber{}, s.subs...)
	s.mu.Unlock()

	notify(subs, Event{Type: EventMissionDeleted, MissionID: id})
	return nil
}

// Counts returns the number of missions, attached segments, and waypoints.
func (s *MissionStore) Counts() (missions, segments, waypoints int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	missions = len(s.missions)
	for _, m := range s.missions {
		segments += len(m.Segments)
		for _, seg := range m.Segments {
			waypoints += len(seg.Waypoints)
		}
	}
	return missions, segments, waypoints
}

// Subscribe registers a callback for store events. It returns an unsubscribe function.
func (s *MissionStore) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify fires events outside the store lock to avoid deadlocks.
func notify(subs []subscriber, ev Event) {
	for _, sub := range subs {
		sub.fn(ev)
	}
}
