package models

// Faculty is the persisted row backing domain.Faculty.
type Faculty struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Priority int    `db:"priority" json:"priority"`
}
