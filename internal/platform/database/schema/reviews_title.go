package schema

// TitleTable represents the 'reviews.title' table
type TitleTable struct {
	Table       string
	ID          string
	Name        string
	Year        string
	Description string
	CategoryID  string
}

// Title is the schema definition for reviews.title
var Title = TitleTable{
	Table:       "reviews.title",
	ID:          "id",
	Name:        "name",
	Year:        "year",
	Description: "description",
	CategoryID:  "categoryid",
}

// Columns returns all standard column names
func (t TitleTable) Columns() []string {
	return []string{t.ID, t.Name, t.Year, t.Description, t.CategoryID}
}
