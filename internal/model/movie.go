package model

import "database/sql"

// Movie is a row in the `movies` table together with its many-to-many
// links.  Genres and Actors are loaded by the repository; they are empty
// when the movie has no links.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – display title.
//	Description – free text synopsis.
//	Duration    – running time in minutes, always positive.
//	Image       – path of the stored poster relative to the media root
//	              (NULL until an image is uploaded).
type Movie struct {
	ID          uint64         `db:"id"`          // movies.id
	Title       string         `db:"title"`       // movies.title
	Description string         `db:"description"` // movies.description
	Duration    uint32         `db:"duration"`    // movies.duration
	Image       sql.NullString `db:"image"`       // movies.image (nullable)
	Genres      []Genre        `db:"-"`
	Actors      []Actor        `db:"-"`
}

// MovieFilter narrows a movie listing.  Empty fields apply no filter.
// GenreIDs and ActorIDs match any of the listed ids.
type MovieFilter struct {
	Title    string
	GenreIDs []uint64
	ActorIDs []uint64
}
