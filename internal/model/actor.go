package model

// Actor is a row in the `actors` table.
type Actor struct {
	ID        uint64 `db:"id"`         // actors.id
	FirstName string `db:"first_name"` // actors.first_name
	LastName  string `db:"last_name"`  // actors.last_name
}

// FullName joins first and last name with a single space.
func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}
