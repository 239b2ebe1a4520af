package schema

// TermTable describes a taxonomy table: 'reviews.category' or 'reviews.genre'.
// Both share the same shape so one store serves them.
type TermTable struct {
	Table string
	ID    string
	Name  string
	Slug  string

	// SlugKey is the unique constraint on Slug.
	SlugKey string
}

// Columns returns all standard column names
func (t TermTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}

// Category is the schema definition for reviews.category
var Category = TermTable{
	Table:   "reviews.category",
	ID:      "id",
	Name:    "name",
	Slug:    "slug",
	SlugKey: "category_slug_key",
}
