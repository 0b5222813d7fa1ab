package model

// CinemaHall represents a screening hall.  Its seating is a full grid of
// Rows x SeatsInRow places; both are positive.
//
// Fields:
//
//	ID         – primary key identifier.
//	Name       – display name of the hall.
//	Rows       – number of seating rows.
//	SeatsInRow – number of seats in every row.
type CinemaHall struct {
	ID         uint64 `db:"id"`           // cinema_halls.id
	Name       string `db:"name"`         // cinema_halls.name
	Rows       uint32 `db:"rows"`         // cinema_halls.rows
	SeatsInRow uint32 `db:"seats_in_row"` // cinema_halls.seats_in_row
}

// Capacity is the number of places in the hall.
func (h CinemaHall) Capacity() uint32 {
	return h.Rows * h.SeatsInRow
}

// HasPlace reports whether row/seat lie inside the hall grid.
func (h CinemaHall) HasPlace(row, seat uint32) bool {
	return row >= 1 && row <= h.Rows && seat >= 1 && seat <= h.SeatsInRow
}
