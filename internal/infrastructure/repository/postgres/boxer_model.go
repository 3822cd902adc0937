package postgres

import "time"

type boxerTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	ClubID       string     `db:"club_public_id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	DateOfBirth  time.Time  `db:"date_of_birth"`
	Gender       string     `db:"gender"`
	Category     string     `db:"category"`
	WeightKG     float64    `db:"weight_kg"`
	BoutCount    int        `db:"bout_count"`
	WinCount     int        `db:"win_count"`
	LossCount    int        `db:"loss_count"`
	Availability string     `db:"availability"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}
