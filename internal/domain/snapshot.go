package domain

// Snapshot is the read-only view of the domain the core operates against
// for the duration of one generation run. Nothing in the core mutates it;
// the generalized entity lookups below go through it instead of following
// back-pointers (spec 9's "cyclic references are flattened" note).
type Snapshot struct {
	Settings    Settings
	Faculties   map[string]Faculty
	Teachers    map[string]Teacher
	Groups      map[string]Group
	Rooms       map[string]Room
	Courses     []Course
	ManualItems []ScheduleItem
}

// NewSnapshot builds a Snapshot from slices, indexing entities by ID.
func NewSnapshot(settings Settings, faculties []Faculty, teachers []Teacher, groups []Group, rooms []Room, courses []Course, manual []ScheduleItem) Snapshot {
	s := Snapshot{
		Settings:    settings,
		Faculties:   make(map[string]Faculty, len(faculties)),
		Teachers:    make(map[string]Teacher, len(teachers)),
		Groups:      make(map[string]Group, len(groups)),
		Rooms:       make(map[string]Room, len(rooms)),
		Courses:     courses,
		ManualItems: manual,
	}
	for _, f := range faculties {
		s.Faculties[f.ID] = f
	}
	for _, t := range teachers {
		s.Teachers[t.ID] = t
	}
	for _, g := range groups {
		s.Groups[g.ID] = g
	}
	for _, r := range rooms {
		s.Rooms[r.ID] = r
	}
	return s
}

// GroupSize returns the occupant count of a group, or a subgroup of it when
// subgroupID is non-empty.
func (s Snapshot) GroupSize(groupID, subgroupID string) int {
	g, ok := s.Groups[groupID]
	if !ok {
		return 0
	}
	if subgroupID == "" {
		return g.Size
	}
	for _, sg := range g.Subgroups {
		if sg.ID == subgroupID {
			return sg.Size
		}
	}
	return 0
}

// AvgFacultyPriority averages the priority of the faculties attached to
// groupIDs; it returns (0, false) when no group carries a faculty.
func (s Snapshot) AvgFacultyPriority(groupIDs []string) (float64, bool) {
	total, count := 0, 0
	for _, gid := range groupIDs {
		g, ok := s.Groups[gid]
		if !ok || g.FacultyID == "" {
			continue
		}
		f, ok := s.Faculties[g.FacultyID]
		if !ok {
			continue
		}
		total += f.Priority
		count++
	}
	if count == 0 {
		return 0, false
	}
	return float64(total) / float64(count), true
}

// RoomsByID returns rooms for the given IDs, skipping unknown ones.
func (s Snapshot) RoomsByID(ids []string) []Room {
	rooms := make([]Room, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.Rooms[id]; ok {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// AllRooms returns every room in the snapshot.
func (s Snapshot) AllRooms() []Room {
	rooms := make([]Room, 0, len(s.Rooms))
	for _, r := range s.Rooms {
		rooms = append(rooms, r)
	}
	return rooms
}
