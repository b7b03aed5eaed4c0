package domain

import (
	"fmt"
	"strconv"
)

// PageSize is the fixed number of titles per search page.
const PageSize = 100

// RatingSource labels the only rating the catalog carries.
const RatingSource = "Internet Movie Database"

// Title is a row of the basics relation.
type Title struct {
	IMDbID         string
	PrimaryTitle   string
	StartYear      *int
	RuntimeMinutes *int
	Genres         string
	TitleType      string
}

// SearchFilter is a validated catalog search.
type SearchFilter struct {
	Title string
	Year  *int
	Page  int
}

// Offset returns the row offset of the filter's page.
func (f SearchFilter) Offset() int {
	return (f.Page - 1) * PageSize
}

// TitleSummary is one search hit.
type TitleSummary struct {
	Title  string `json:"Title"`
	Year   *int   `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Total       int `json:"total"`
	LastPage    int `json:"lastPage"`
	PerPage     int `json:"perPage"`
	CurrentPage int `json:"currentPage"`
	From        int `json:"from"`
	To          int `json:"to"`
}

// NewPagination computes page metadata for total matches at page.
// From is the zero-based offset of the page; To is capped at total.
func NewPagination(total, page int) Pagination {
	return Pagination{
		Total:       total,
		LastPage:    (total + PageSize - 1) / PageSize,
		PerPage:     PageSize,
		CurrentPage: page,
		From:        (page - 1) * PageSize,
		To:          min(page*PageSize, total),
	}
}

// SearchResult is a page of search hits.
type SearchResult struct {
	Data       []TitleSummary `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// Rating is a single rating entry of a movie detail.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// NewRating formats an average rating as "<v>/10", or "N/A/10" when absent.
func NewRating(average *float64) Rating {
	value := "N/A"
	if average != nil {
		value = strconv.FormatFloat(*average, 'f', -1, 64)
	}
	return Rating{Source: RatingSource, Value: value + "/10"}
}

// MovieDetail is the aggregated view of one title.
type MovieDetail struct {
	Title    string   `json:"Title"`
	Year     *int     `json:"Year"`
	Runtime  string   `json:"Runtime"`
	Genre    string   `json:"Genre"`
	Director string   `json:"Director"`
	Writer   string   `json:"Writer"`
	Actors   string   `json:"Actors"`
	Ratings  []Rating `json:"Ratings"`
}

// FormatRuntime renders runtime minutes as "<N> min", or "N/A min" when unknown.
func FormatRuntime(minutes *int) string {
	if minutes == nil {
		return "N/A min"
	}
	return fmt.Sprintf("%d min", *minutes)
}
