package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-core/internal/domain"
)

// RoomRepository loads the physical room inventory.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListRooms implements ports.RoomReader.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT id, name, capacity, is_lecture_hall, is_lab, is_computer_lab FROM rooms ORDER BY id`
	var rows []roomRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	rooms := make([]domain.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, domain.Room{
			ID:            row.ID,
			Name:          row.Name,
			Capacity:      row.Capacity,
			IsLectureHall: row.IsLectureHall,
			IsLab:         row.IsLab,
			IsComputerLab: row.IsComputerLab,
		})
	}
	return rooms, nil
}

type roomRow struct {
	ID            string `db:"id"`
	Name          string `db:"name"`
	Capacity      int    `db:"capacity"`
	IsLectureHall bool   `db:"is_lecture_hall"`
	IsLab         bool   `db:"is_lab"`
	IsComputerLab bool   `db:"is_computer_lab"`
}
