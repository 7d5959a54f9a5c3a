package conflictindex

// ConflictDescriptions implements the pure conflict predicate of spec 6:
// given a candidate (week, day, period, teacherID, roomID, groupIDs) and an
// optional item to exclude (the one being edited in a manual-placement
// UI), return human-readable descriptions of every hard conflict against
// the currently committed schedule. Subgroup relaxation is deliberately
// ignored here since the manual UI does not pass subgroup context.
func (idx *Index) ConflictDescriptions(week, day, period int, teacherID, roomID string, groupIDs []string, excludeItemID string) []string {
	slot := Slot{Week: week, Day: day, Period: period}
	var conflicts []string
	for _, it := range idx.ItemsAt(slot) {
		if it.ID == excludeItemID {
			continue
		}
		if teacherID != "" && it.TeacherID == teacherID {
			conflicts = append(conflicts, "teacher "+teacherID+" is already scheduled at this slot")
		}
		if roomID != "" && it.RoomID == roomID {
			conflicts = append(conflicts, "room "+roomID+" is already occupied at this slot")
		}
		for _, g := range groupIDs {
			if it.HasGroup(g) {
				conflicts = append(conflicts, "group "+g+" already has a lesson at this slot")
			}
		}
	}
	return conflicts
}
