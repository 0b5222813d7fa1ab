// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// OrderCreatedQueue is the durable queue carrying OrderCreatedEvent.
const OrderCreatedQueue = "order.created"

// OrderCreatedEvent is published after an order and its tickets are
// committed.  It carries enough data for consumers to log or notify
// without querying the primary database.
type OrderCreatedEvent struct {
	OrderID   uint64        `json:"order_id"`
	UserID    uint64        `json:"user_id"`
	CreatedAt string        `json:"created_at"`
	Tickets   []EventTicket `json:"tickets"`
}

// EventTicket is one sold place inside an OrderCreatedEvent.
type EventTicket struct {
	MovieSessionID uint64 `json:"movie_session_id"`
	MovieTitle     string `json:"movie_title"`
	HallName       string `json:"cinema_hall"`
	ShowTime       string `json:"show_time"`
	Row            uint32 `json:"row"`
	Seat           uint32 `json:"seat"`
}
