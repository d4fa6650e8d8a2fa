package book

import (
	"errors"
)

// ErrNotFound is returned by a Store when no book matches the identifier.
var ErrNotFound = errors.New("book not found")

// ErrDuplicateISBN is returned when a book with the same ISBN already exists.
// Clients receive its message verbatim.
var ErrDuplicateISBN = errors.New("ISBN is already exists")

// Book represents a book entity. ID is zero until the store assigns one.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}
