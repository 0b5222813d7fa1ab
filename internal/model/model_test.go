package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFullName(t *testing.T) {
	a := Actor{FirstName: "Keanu", LastName: "Reeves"}
	assert.Equal(t, "Keanu Reeves", a.FullName())
}

func TestCinemaHallPlaces(t *testing.T) {
	h := CinemaHall{Rows: 10, SeatsInRow: 12}
	assert.Equal(t, uint32(120), h.Capacity())

	tests := []struct {
		row, seat uint32
		want      bool
	}{
		{1, 1, true},
		{10, 12, true},
		{0, 1, false},
		{11, 1, false},
		{5, 13, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.HasPlace(tt.row, tt.seat), "row=%d seat=%d", tt.row, tt.seat)
	}
}

func TestTicketsAvailable(t *testing.T) {
	r := MovieSessionRow{HallRows: 2, HallSeats: 3, TicketsSold: 4}
	assert.Equal(t, uint32(2), r.TicketsAvailable())

	r.TicketsSold = 9
	assert.Equal(t, uint32(0), r.TicketsAvailable())
}

func TestUserRole(t *testing.T) {
	assert.Equal(t, RoleUser, User{}.Role())
	assert.Equal(t, RoleAdmin, User{IsStaff: true}.Role())
}
