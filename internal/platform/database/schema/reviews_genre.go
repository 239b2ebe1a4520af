package schema

// Genre is the schema definition for reviews.genre
var Genre = TermTable{
	Table:   "reviews.genre",
	ID:      "id",
	Name:    "name",
	Slug:    "slug",
	SlugKey: "genre_slug_key",
}
