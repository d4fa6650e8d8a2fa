package book

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedStore(t *testing.T) (*MockStore, *MockCache, *CachedStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	next := NewMockStore(ctrl)
	cache := NewMockCache(ctrl)
	return next, cache, NewCachedStore(next, cache, time.Minute, zerolog.Nop())
}

func TestCachedStore_FindByID(t *testing.T) {
	ctx := context.Background()
	stored := Book{ID: 1, Title: "Judul", Author: "Autor", ISBN: "123"}
	encoded, err := json.Marshal(stored)
	require.NoError(t, err)

	t.Run("hit skips the store", func(t *testing.T) {
		_, cache, s := newCachedStore(t)
		cache.EXPECT().Get(gomock.Any(), "book:1").Return(encoded, true, nil)

		got, err := s.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("miss loads and fills", func(t *testing.T) {
		next, cache, s := newCachedStore(t)
		gomock.InOrder(
			cache.EXPECT().Get(gomock.Any(), "book:1").Return(nil, false, nil),
			next.EXPECT().FindByID(gomock.Any(), int64(1)).Return(stored, nil),
			cache.EXPECT().Set(gomock.Any(), "book:1", encoded, time.Minute).Return(nil),
		)

		got, err := s.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("absence is not cached", func(t *testing.T) {
		next, cache, s := newCachedStore(t)
		cache.EXPECT().Get(gomock.Any(), "book:9").Return(nil, false, nil)
		next.EXPECT().FindByID(gomock.Any(), int64(9)).Return(Book{}, ErrNotFound)
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := s.FindByID(ctx, 9)

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cache errors fall through", func(t *testing.T) {
		next, cache, s := newCachedStore(t)
		cache.EXPECT().Get(gomock.Any(), "book:1").Return(nil, false, errors.New("redis down"))
		next.EXPECT().FindByID(gomock.Any(), int64(1)).Return(stored, nil)
		cache.EXPECT().Set(gomock.Any(), "book:1", gomock.Any(), time.Minute).Return(errors.New("redis down"))

		got, err := s.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("corrupt entry is dropped", func(t *testing.T) {
		next, cache, s := newCachedStore(t)
		cache.EXPECT().Get(gomock.Any(), "book:1").Return([]byte("{not json"), true, nil)
		cache.EXPECT().Delete(gomock.Any(), "book:1").Return(nil)
		next.EXPECT().FindByID(gomock.Any(), int64(1)).Return(stored, nil)
		cache.EXPECT().Set(gomock.Any(), "book:1", encoded, time.Minute).Return(nil)

		got, err := s.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})
}

func TestCachedStore_WritesInvalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("update", func(t *testing.T) {
		next, cache, s := newCachedStore(t)
		b := &Book{ID: 3, Title: "Baru", Author: "Penulis"}
		gomock.InOrder(
			next.EXPECT().Update(gomock.Any(), b).Return(nil),
			cache.EXPECT().Delete(gomock.Any(), "book:3").Return(nil),
		)

		assert.NoError(t, s.Update(ctx, b))
	})

	t.Run("delete invalidates even on failure", func(t *testing.T) {
		next, cache, s := newCachedStore(t)
		next.EXPECT().Delete(gomock.Any(), int64(3)).Return(ErrNotFound)
		cache.EXPECT().Delete(gomock.Any(), "book:3").Return(errors.New("redis down"))

		assert.ErrorIs(t, s.Delete(ctx, 3), ErrNotFound)
	})
}

func TestCachedStore_PassThrough(t *testing.T) {
	ctx := context.Background()
	next, _, s := newCachedStore(t)

	b := &Book{Title: "Judul", Author: "Autor", ISBN: "123"}
	next.EXPECT().ExistsByISBN(gomock.Any(), "123").Return(true, nil)
	next.EXPECT().Insert(gomock.Any(), b).Return(nil)

	exists, err := s.ExistsByISBN(ctx, "123")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, s.Insert(ctx, b))
}
