package extraction

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/platform/sqlite"
	"github.com/phrazzld/bookdeck/internal/store"
	"github.com/phrazzld/bookdeck/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor counts calls and returns canned text or a canned error.
type fakeExtractor struct {
	calls atomic.Int64
	text  string
	err   error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, filename string, pdf []byte) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func newTestService(t *testing.T, extractor Extractor) (*Service, *domain.Book) {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "bookdeck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	book, err := domain.NewBook("Genki I", "/books/genki.pdf", testutils.MinimalPDF(t, 10), 10)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewBookStore(db).Create(context.Background(), book))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(extractor, sqlite.NewContentStore(db), "v1", logger), book
}

func TestService_ExtractStoresAndReturnsContent(t *testing.T) {
	t.Parallel()

	fake := &fakeExtractor{text: "lesson text"}
	svc, book := newTestService(t, fake)

	r, err := domain.NewPageRange(3, 7)
	require.NoError(t, err)

	content, err := svc.Extract(context.Background(), book, r)
	require.NoError(t, err)
	assert.Equal(t, "lesson text", content.Text)
	assert.Equal(t, book.ID, content.Key.BookID)
	assert.Equal(t, r, content.Key.Range)
	assert.Equal(t, "v1", content.Key.ExtractorVersion)
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestService_ExtractCacheHitSkipsService(t *testing.T) {
	t.Parallel()

	fake := &fakeExtractor{text: "lesson text"}
	svc, book := newTestService(t, fake)
	ctx := context.Background()

	r, err := domain.NewPageRange(3, 7)
	require.NoError(t, err)

	first, err := svc.Extract(ctx, book, r)
	require.NoError(t, err)

	second, err := svc.Extract(ctx, book, r)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.EqualValues(t, 1, fake.calls.Load(), "cached range must not call the extractor")
}

func TestService_ExtractRangeOutsideBook(t *testing.T) {
	t.Parallel()

	fake := &fakeExtractor{text: "x"}
	svc, book := newTestService(t, fake)
	ctx := context.Background()

	r, err := domain.NewPageRange(51, 51)
	require.NoError(t, err)

	_, err = svc.Extract(ctx, book, r)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.Extract(ctx, book, domain.PageRange{Start: 0, End: 3})
	assert.ErrorIs(t, err, ErrInvalidRange)

	assert.EqualValues(t, 0, fake.calls.Load())
}

func TestService_ExtractPropagatesServiceErrors(t *testing.T) {
	t.Parallel()

	fake := &fakeExtractor{err: ErrServiceUnavailable}
	svc, book := newTestService(t, fake)

	r, err := domain.NewPageRange(1, 2)
	require.NoError(t, err)

	_, err = svc.Extract(context.Background(), book, r)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestService_ConcurrentExtractSameKey(t *testing.T) {
	t.Parallel()

	fake := &fakeExtractor{text: "same pages"}
	svc, book := newTestService(t, fake)
	ctx := context.Background()

	r, err := domain.NewPageRange(2, 4)
	require.NoError(t, err)

	const callers = 4
	var wg sync.WaitGroup
	results := make([]*domain.ExtractedContent, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Extract(ctx, book, r)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		// Every caller observes the single stored row.
		assert.Equal(t, results[0].Text, results[i].Text)
		assert.Equal(t, results[0].ExtractedAt, results[i].ExtractedAt)
	}
}

func TestService_ExtractRejectsEmptyText(t *testing.T) {
	t.Parallel()

	fake := &fakeExtractor{text: ""}
	svc, book := newTestService(t, fake)

	r, err := domain.NewPageRange(1, 2)
	require.NoError(t, err)

	_, err = svc.Extract(context.Background(), book, r)
	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.NotErrorIs(t, err, store.ErrContentNotFound)
}
