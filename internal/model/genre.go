package model

// Genre is a row in the `genres` table.  Names are unique.
type Genre struct {
	ID   uint64 `db:"id"`   // genres.id
	Name string `db:"name"` // genres.name
}
