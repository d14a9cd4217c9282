package googlebooks

import "github.com/readtrailapp/readtrail-server/internal/domain"

// Volume is a normalized search result ready for API responses.
type Volume struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	Description   string   `json:"description"`
	PageCount     int      `json:"page_count"`
	Categories    []string `json:"categories"`
	ISBN          string   `json:"isbn"`
	CoverURL      string   `json:"cover_url"`
	Language      string   `json:"language"`
	AverageRating float64  `json:"average_rating"`
	RatingsCount  int      `json:"ratings_count"`
	PreviewLink   string   `json:"preview_link"`
}

// ToBook converts the volume into a catalog book.
func (v *Volume) ToBook() *domain.Book {
	book := &domain.Book{
		GoogleBooksID: v.ID,
		Title:         v.Title,
		Authors:       v.Authors,
		Publisher:     v.Publisher,
		PublishedDate: v.PublishedDate,
		Description:   v.Description,
		PageCount:     v.PageCount,
		Categories:    v.Categories,
		ISBN:          v.ISBN,
		CoverURL:      v.CoverURL,
		Language:      v.Language,
		AverageRating: v.AverageRating,
		RatingsCount:  v.RatingsCount,
	}
	book.InitTimestamps()
	return book
}

// volumesResponse is the raw volumes list response.
type volumesResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []rawVolume `json:"items"`
}

// rawVolume is a single volume as returned by the API.
type rawVolume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	Description         string               `json:"description"`
	PageCount           int                  `json:"pageCount"`
	Categories          []string             `json:"categories"`
	Language            string               `json:"language"`
	AverageRating       float64              `json:"averageRating"`
	RatingsCount        int                  `json:"ratingsCount"`
	PreviewLink         string               `json:"previewLink"`
	ImageLinks          imageLinks           `json:"imageLinks"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
}

type imageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// normalize maps a raw volume to the exported shape, filling in safe
// defaults for fields the API frequently omits.
func (r *rawVolume) normalize() Volume {
	info := r.VolumeInfo

	authors := info.Authors
	if authors == nil {
		authors = []string{}
	}
	categories := info.Categories
	if categories == nil {
		categories = []string{}
	}

	return Volume{
		ID:            r.ID,
		Title:         info.Title,
		Authors:       authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		PageCount:     info.PageCount,
		Categories:    categories,
		ISBN:          info.bestISBN(),
		CoverURL:      info.bestCoverURL(),
		Language:      info.Language,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		PreviewLink:   info.PreviewLink,
	}
}

// bestISBN prefers ISBN-13 over ISBN-10.
func (v *volumeInfo) bestISBN() string {
	var isbn10 string
	for _, id := range v.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	return isbn10
}

// bestCoverURL picks the largest available image link.
func (v *volumeInfo) bestCoverURL() string {
	links := v.ImageLinks
	for _, url := range []string{links.Large, links.Medium, links.Small, links.Thumbnail, links.SmallThumbnail} {
		if url != "" {
			return url
		}
	}
	return ""
}
