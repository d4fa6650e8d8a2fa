package book

import (
	"context"
	"errors"
	"fmt"
)

// Service provides book-related business logic.
type Service struct {
	store Store
}

// NewService creates a new book service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new book after checking that its ISBN is unused.
// The check is advisory: the unique constraint in storage settles races,
// and the store reports that case as ErrDuplicateISBN too.
func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	exists, err := s.store.ExistsByISBN(ctx, b.ISBN)
	if err != nil {
		return Book{}, fmt.Errorf("check isbn: %w", err)
	}
	if exists {
		return Book{}, ErrDuplicateISBN
	}

	b.ID = 0
	if err := s.store.Insert(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("insert book: %w", err)
	}
	return b, nil
}

// GetByID returns the book and true, or false when no book has that id.
// Absence is not an error.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, bool, error) {
	b, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Book{}, false, nil
	}
	if err != nil {
		return Book{}, false, fmt.Errorf("find book %d: %w", id, err)
	}
	return b, true, nil
}

// Update persists the title and author of a book previously loaded with
// GetByID. The ISBN is never written.
func (s *Service) Update(ctx context.Context, b Book) (Book, error) {
	if err := s.store.Update(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return b, nil
}

// Delete removes a book previously loaded with GetByID.
func (s *Service) Delete(ctx context.Context, b Book) error {
	if err := s.store.Delete(ctx, b.ID); err != nil {
		return fmt.Errorf("delete book %d: %w", b.ID, err)
	}
	return nil
}
