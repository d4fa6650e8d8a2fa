package book

import "strings"

// createBookRequest is the POST /api/books payload. Any id sent by the
// client is ignored.
type createBookRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Author string `json:"author" validate:"required,max=255"`
	ISBN   string `json:"isbn" validate:"required,max=255"`
}

func (r *createBookRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.ISBN = strings.TrimSpace(r.ISBN)
}

func (r createBookRequest) toEntity() Book {
	return Book{Title: r.Title, Author: r.Author, ISBN: r.ISBN}
}

// updateBookRequest is the PUT /api/books/{id} payload. The isbn field is not
// decoded, so an isbn in the body has no effect.
type updateBookRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Author string `json:"author" validate:"required,max=255"`
}

func (r *updateBookRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
}

func (r updateBookRequest) applyTo(b *Book) {
	b.Title = r.Title
	b.Author = r.Author
}

type bookResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

func toResponse(b Book) bookResponse {
	return bookResponse{ID: b.ID, Title: b.Title, Author: b.Author, ISBN: b.ISBN}
}
