package domain

// Book is a catalog record shared by all library entries referencing it.
// Books are keyed by their Google Books volume ID and deduplicated on
// that ID, so two users adding the same volume share one Book. Books
// entered by hand have no volume ID and are never deduplicated.
type Book struct {
	Record
	GoogleBooksID string       `json:"google_books_id,omitempty"`
	Title         string       `json:"title"`
	Authors       []string     `json:"authors"`
	Publisher     string       `json:"publisher"`
	PublishedDate string       `json:"published_date"`
	Description   string       `json:"description"`
	PageCount     int          `json:"page_count"`
	Categories    []string     `json:"categories"`
	ISBN          string       `json:"isbn"`
	CoverURL      string       `json:"cover_url"`
	Language      string       `json:"language"`
	AverageRating float64      `json:"average_rating,omitempty"`
	RatingsCount  int          `json:"ratings_count,omitempty"`
	CustomFields  CustomFields `json:"custom_fields"`
}

// CustomFields holds optional user-supplied bibliographic details that
// the catalog does not provide.
type CustomFields struct {
	Series           string  `json:"series,omitempty"`
	SeriesNumber     int     `json:"series_number,omitempty"`
	Translator       string  `json:"translator,omitempty"`
	Edition          string  `json:"edition,omitempty"`
	AcquisitionDate  string  `json:"acquisition_date,omitempty"`
	AcquisitionPrice float64 `json:"acquisition_price,omitempty"`
	Format           string  `json:"format,omitempty"`
}

// AuthorLine joins the author list for display and search.
func (b *Book) AuthorLine() string {
	line := ""
	for i, a := range b.Authors {
		if i > 0 {
			line += ", "
		}
		line += a
	}
	return line
}
