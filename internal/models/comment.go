// Package models contains the wire types exchanged with the PhotoShare API.
package models

import "time"

// Comment is a single comment on a content item, as returned by the API.
// UserRating is the rating the author held when the comment was posted, when
// they had one.
type Comment struct {
	ID         string    `json:"_id"`
	User       UserRef   `json:"user"`
	UserRating *int      `json:"userRating,omitempty"`
	Text       string    `json:"commentText"`
	Date       time.Time `json:"date"`
}

// Pagination carries the server's page accounting for a comment thread.
type Pagination struct {
	TotalPages    int `json:"totalPages"`
	TotalComments int `json:"totalComments"`
}

// FeedbackPage is the response of the ratings-comments endpoint: the
// aggregate rating for an item plus one page of its comments. UserRating is
// present only when the request carried a valid credential.
type FeedbackPage struct {
	AverageRating float64    `json:"averageRating"`
	RatingsCount  int        `json:"ratingsCount"`
	UserRating    *int       `json:"userRating,omitempty"`
	Comments      []Comment  `json:"comments"`
	Pagination    Pagination `json:"pagination"`
}
