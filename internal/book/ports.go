package book

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mock_store.go -package=book

// Store defines the contract for book data storage.
type Store interface {
	// Insert persists a new book and sets its ID.
	Insert(ctx context.Context, b *Book) error
	// FindByID returns ErrNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	// Update writes title and author only and refreshes b from the stored row.
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
}

// Cache is the byte-oriented key/value port used by CachedStore.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
