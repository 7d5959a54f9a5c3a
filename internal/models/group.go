package models

// Group is the persisted row backing domain.Group.
type Group struct {
	ID               string `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	Size             int    `db:"size" json:"size"`
	FacultyID        string `db:"faculty_id" json:"faculty_id"`
	SubgroupCount    int    `db:"subgroup_count" json:"subgroup_count"`
	MaxPerDay        int    `db:"max_per_day" json:"max_per_day"`
	PreferredPeriods []int  `db:"preferred_periods" json:"preferred_periods"`
}
