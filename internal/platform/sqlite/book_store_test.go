package sqlite

import (
	"context"
	"testing"

	"github.com/phrazzld/bookdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookStore_CreateAndGetByName(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	s := NewBookStore(db)
	ctx := context.Background()

	book := mustBook(t, db, "Genki I")

	got, err := s.GetByName(ctx, "Genki I")
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
	assert.Equal(t, book.Name, got.Name)
	assert.Equal(t, book.SourcePath, got.SourcePath)
	assert.Equal(t, book.PageCount, got.PageCount)
	assert.Equal(t, book.Content, got.Content)
	assert.Equal(t, book.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestBookStore_CreateDuplicateName(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	book := mustBook(t, db, "Genki I")

	err := NewBookStore(db).Create(ctx, book)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrBookExists)
	assert.True(t, store.IsDuplicateError(err))
}

func TestBookStore_GetByNameNotFound(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)

	_, err := NewBookStore(db).GetByName(context.Background(), "no such book")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrBookNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestBookStore_ListOmitsContent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	s := NewBookStore(db)

	mustBook(t, db, "Minna no Nihongo")
	mustBook(t, db, "Genki I")

	books, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)

	// Ordered by name; the raw PDF bytes stay out of listings.
	assert.Equal(t, "Genki I", books[0].Name)
	assert.Equal(t, "Minna no Nihongo", books[1].Name)
	for _, b := range books {
		assert.Nil(t, b.Content)
		assert.Equal(t, 10, b.PageCount)
	}
}

func TestBookStore_UpdatePageCount(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	s := NewBookStore(db)
	ctx := context.Background()

	book := mustBook(t, db, "Genki I")

	require.NoError(t, s.UpdatePageCount(ctx, book.ID, 42))

	got, err := s.GetByName(ctx, book.Name)
	require.NoError(t, err)
	assert.Equal(t, 42, got.PageCount)

	err = s.UpdatePageCount(ctx, "deadbeefcafe", 1)
	assert.ErrorIs(t, err, store.ErrBookNotFound)
}

func TestBookStore_DeleteCascades(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	books := NewBookStore(db)
	contents := NewContentStore(db)
	ctx := context.Background()

	book := mustBook(t, db, "Genki I")
	content := mustContent(t, book.ID, 3, 7, "v1", "extracted text")
	require.NoError(t, contents.Put(ctx, content))

	require.NoError(t, books.Delete(ctx, book.ID))

	_, err := books.GetByName(ctx, book.Name)
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	_, err = contents.Get(ctx, content.Key)
	assert.ErrorIs(t, err, store.ErrContentNotFound)

	err = books.Delete(ctx, book.ID)
	assert.ErrorIs(t, err, store.ErrBookNotFound)
}
