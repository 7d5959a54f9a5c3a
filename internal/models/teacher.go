package models

// Teacher is the persisted row backing domain.Teacher.
type Teacher struct {
	ID                string `db:"id" json:"id"`
	Name              string `db:"name" json:"name"`
	PreferredWeekdays []int  `db:"preferred_weekdays" json:"preferred_weekdays"`
	PreferredPeriods  []int  `db:"preferred_periods" json:"preferred_periods"`
	MaxPerDay         int    `db:"max_per_day" json:"max_per_day"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
