package model

import "time"

// Order groups the tickets a user bought in a single request.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – user who placed the order.
//	CreatedAt – creation timestamp.
//	Tickets   – tickets issued with the order (loaded by the repository).
type Order struct {
	ID        uint64    `db:"id"`         // orders.id
	UserID    uint64    `db:"user_id"`    // orders.user_id
	CreatedAt time.Time `db:"created_at"` // orders.created_at
	Tickets   []Ticket  `db:"-"`
}

// Ticket is a single place for a movie session.  The triple
// (MovieSessionID, Row, Seat) is unique.
type Ticket struct {
	ID             uint64 `db:"id"`               // tickets.id
	OrderID        uint64 `db:"order_id"`         // tickets.order_id
	MovieSessionID uint64 `db:"movie_session_id"` // tickets.movie_session_id
	Row            uint32 `db:"row"`              // tickets.row
	Seat           uint32 `db:"seat"`             // tickets.seat

	// Denormalized session info filled when listing orders.
	ShowTime   time.Time `db:"show_time"`
	MovieTitle string    `db:"movie_title"`
	HallName   string    `db:"hall_name"`
}
