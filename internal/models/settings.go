package models

// Settings is the persisted singleton row backing domain.Settings. Term
// runs read exactly one row, identified by TermID.
type Settings struct {
	TermID              string `db:"term_id" json:"term_id"`
	Weeks               int    `db:"weeks" json:"weeks"`
	Days                int    `db:"days" json:"days"`
	Periods             int    `db:"periods" json:"periods"`
	MaxPerDayGlobal     int    `db:"max_per_day_global" json:"max_per_day_global"`
	PreferDistribution  string `db:"prefer_distribution" json:"prefer_distribution"`
	AvoidWindows        bool   `db:"avoid_windows" json:"avoid_windows"`
	PrioritizeFaculty   bool   `db:"prioritize_faculty" json:"prioritize_faculty"`
	RespectTeacherPrefs bool   `db:"respect_teacher_prefs" json:"respect_teacher_prefs"`
	OptimizeRoomUsage   bool   `db:"optimize_room_usage" json:"optimize_room_usage"`
}
