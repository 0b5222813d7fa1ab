package model

import "time"

// MovieSession is a scheduled screening of a movie in a cinema hall.
//
// Fields:
//
//	ID           – primary key identifier.
//	ShowTime     – when the screening starts (UTC).
//	MovieID      – movie being shown.
//	CinemaHallID – hall where the screening takes place.
type MovieSession struct {
	ID           uint64    `db:"id"`             // movie_sessions.id
	ShowTime     time.Time `db:"show_time"`      // movie_sessions.show_time
	MovieID      uint64    `db:"movie_id"`       // movie_sessions.movie_id
	CinemaHallID uint64    `db:"cinema_hall_id"` // movie_sessions.cinema_hall_id
}

// MovieSessionRow is a session joined with its movie and hall for listing.
// TicketsSold counts tickets already issued for the session.
type MovieSessionRow struct {
	MovieSession
	MovieTitle  string  `db:"movie_title"`
	MovieImage  *string `db:"movie_image"`
	HallName    string  `db:"hall_name"`
	HallRows    uint32  `db:"hall_rows"`
	HallSeats   uint32  `db:"hall_seats_in_row"`
	TicketsSold uint32  `db:"tickets_sold"`
}

// TicketsAvailable is the hall capacity minus the tickets already sold.
func (r MovieSessionRow) TicketsAvailable() uint32 {
	capacity := r.HallRows * r.HallSeats
	if r.TicketsSold >= capacity {
		return 0
	}
	return capacity - r.TicketsSold
}

// MovieSessionFilter narrows a session listing.  A nil Date or zero
// MovieID applies no filter.
type MovieSessionFilter struct {
	Date    *time.Time
	MovieID uint64
}

// Place is a row/seat pair inside a cinema hall.
type Place struct {
	Row  uint32 `db:"row"`
	Seat uint32 `db:"seat"`
}
