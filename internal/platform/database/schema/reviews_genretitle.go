package schema

// GenreTitleTable represents the 'reviews.genretitle' table
type GenreTitleTable struct {
	Table   string
	ID      string
	TitleID string
	GenreID string

	// TitleGenreKey is the unique constraint on (TitleID, GenreID).
	TitleGenreKey string
}

// GenreTitle is the schema definition for reviews.genretitle
var GenreTitle = GenreTitleTable{
	Table:         "reviews.genretitle",
	ID:            "id",
	TitleID:       "titleid",
	GenreID:       "genreid",
	TitleGenreKey: "genretitle_title_genre_key",
}
