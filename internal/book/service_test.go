package book_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"bookshelf/internal/book"
	"bookshelf/internal/store"
	"bookshelf/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(seed []book.Book) (*book.Service, *store.MemoryStore) {
	s := store.NewMemoryStore(seed)
	return book.NewService(s), s
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(testutil.NumberedBooks(25))

	tests := []struct {
		name      string
		page      int
		wantPage  int
		wantFirst int
		wantLen   int
	}{
		{name: "first page", page: 1, wantPage: 1, wantFirst: 1, wantLen: 10},
		{name: "second page", page: 2, wantPage: 2, wantFirst: 11, wantLen: 10},
		{name: "last partial page", page: 3, wantPage: 3, wantFirst: 21, wantLen: 5},
		{name: "past the end", page: 4, wantPage: 4, wantLen: 0},
		{name: "zero clamps to one", page: 0, wantPage: 1, wantFirst: 1, wantLen: 10},
		{name: "negative clamps to one", page: -3, wantPage: 1, wantFirst: 1, wantLen: 10},
		{name: "offset would overflow", page: 1844674407370955162, wantPage: 1844674407370955162, wantLen: 0},
		{name: "max int", page: math.MaxInt, wantPage: math.MaxInt, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.page)
			require.NoError(t, err)

			assert.Equal(t, 25, got.Total)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, book.PageSize, got.PageSize)
			require.NotNil(t, got.Items)
			require.Len(t, got.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got.Items[0].ID)
			}
		})
	}
}

func TestService_List_NonEmptyPageCount(t *testing.T) {
	ctx := context.Background()

	for _, size := range []int{0, 1, 9, 10, 11, 20, 21, 35} {
		svc, _ := newService(testutil.NumberedBooks(size))
		wantPages := (size + book.PageSize - 1) / book.PageSize

		nonEmpty := 0
		for page := 1; page <= wantPages+2; page++ {
			got, err := svc.List(ctx, page)
			require.NoError(t, err)
			assert.Equal(t, size, got.Total)
			if len(got.Items) > 0 {
				nonEmpty++
			}
		}
		assert.Equal(t, wantPages, nonEmpty, "collection size %d", size)
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first id is 1", func(t *testing.T) {
		svc, _ := newService(nil)

		got, err := svc.Create(ctx, book.Candidate{Title: "A", Author: "B", Year: 1999})
		require.NoError(t, err)
		assert.Equal(t, book.Book{ID: 1, Title: "A", Author: "B", Year: 1999}, got)
	})

	t.Run("ids increase by one", func(t *testing.T) {
		svc, _ := newService(nil)

		first, err := svc.Create(ctx, book.Candidate{Title: "A", Author: "B", Year: 1999})
		require.NoError(t, err)
		second, err := svc.Create(ctx, book.Candidate{Title: "C", Author: "D", Year: 2000})
		require.NoError(t, err)
		assert.Equal(t, first.ID+1, second.ID)
	})

	t.Run("id follows max not count", func(t *testing.T) {
		svc, _ := newService([]book.Book{
			{ID: 7, Title: "A", Author: "B", Year: 1},
			{ID: 3, Title: "C", Author: "D", Year: 2},
		})

		got, err := svc.Create(ctx, book.Candidate{Title: "E", Author: "F", Year: 3})
		require.NoError(t, err)
		assert.Equal(t, 8, got.ID)
	})

	t.Run("stores normalized values and appends", func(t *testing.T) {
		svc, s := newService(testutil.SampleBooks())

		got, err := svc.Create(ctx, book.Candidate{Title: "  Go in Action ", Author: " William Kennedy", Year: "2015"})
		require.NoError(t, err)

		books, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, books, 4)
		assert.Equal(t, got, books[3])
		assert.Equal(t, "Go in Action", books[3].Title)
		assert.Equal(t, 2015, books[3].Year)
	})

	t.Run("validation error leaves store untouched", func(t *testing.T) {
		svc, s := newService(testutil.SampleBooks())

		_, err := svc.Create(ctx, book.Candidate{Author: "B", Year: 1999})
		var verr *book.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Title is required.", verr.Message)

		books, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, testutil.SampleBooks(), books)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces fields and keeps id", func(t *testing.T) {
		svc, s := newService(testutil.SampleBooks())

		got, err := svc.Update(ctx, 2, book.Candidate{Title: " Learning Go ", Author: "Jon Bodner", Year: 2021})
		require.NoError(t, err)
		assert.Equal(t, book.Book{ID: 2, Title: "Learning Go", Author: "Jon Bodner", Year: 2021}, got)

		books, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, got, books[1])
		assert.Equal(t, testutil.SampleBooks()[0], books[0])
		assert.Equal(t, testutil.SampleBooks()[2], books[2])
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newService(testutil.SampleBooks())

		_, err := svc.Update(ctx, 99, book.Candidate{Title: "A", Author: "B", Year: 1})
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("validation runs before lookup", func(t *testing.T) {
		svc, _ := newService(testutil.SampleBooks())

		_, err := svc.Update(ctx, 99, book.Candidate{Title: "A", Author: "B", Year: 3000})
		var verr *book.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Year must be between 0 and 2100.", verr.Message)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes matching book", func(t *testing.T) {
		svc, s := newService(testutil.SampleBooks())

		require.NoError(t, svc.Delete(ctx, 2))

		books, err := s.Load(ctx)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, 1, books[0].ID)
		assert.Equal(t, 3, books[1].ID)
	})

	t.Run("missing id leaves collection unchanged", func(t *testing.T) {
		svc, s := newService(testutil.SampleBooks())

		err := svc.Delete(ctx, 42)
		assert.ErrorIs(t, err, book.ErrNotFound)

		books, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, testutil.SampleBooks(), books)
	})

	t.Run("ids are not reused after deleting the max", func(t *testing.T) {
		svc, _ := newService(testutil.SampleBooks())

		require.NoError(t, svc.Delete(ctx, 2))
		got, err := svc.Create(ctx, book.Candidate{Title: "A", Author: "B", Year: 1})
		require.NoError(t, err)
		assert.Equal(t, 4, got.ID)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(testutil.SampleBooks())

	got, err := svc.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleBooks()[2], got)

	_, err = svc.Get(ctx, 4)
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		books []book.Book
		want  book.Stats
	}{
		{
			name: "empty collection",
			want: book.Stats{Total: 0, AveragePublicationYear: 0},
		},
		{
			name: "half rounds to even",
			books: []book.Book{
				{ID: 1, Title: "A", Author: "B", Year: 2000},
				{ID: 2, Title: "C", Author: "D", Year: 2001},
			},
			want: book.Stats{Total: 2, AveragePublicationYear: 2000},
		},
		{
			name: "odd half rounds up to even",
			books: []book.Book{
				{ID: 1, Title: "A", Author: "B", Year: 2001},
				{ID: 2, Title: "C", Author: "D", Year: 2002},
			},
			want: book.Stats{Total: 2, AveragePublicationYear: 2002},
		},
		{
			name:  "sample",
			books: testutil.SampleBooks(),
			want:  book.Stats{Total: 3, AveragePublicationYear: 2016},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.books)

			got, err := svc.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	ioErr := errors.New("disk gone")

	t.Run("load failure surfaces from every operation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockStore := book.NewMockStore(ctrl)
		mockStore.EXPECT().Load(gomock.Any()).Return(nil, ioErr).Times(6)
		svc := book.NewService(mockStore)

		_, err := svc.List(ctx, 1)
		assert.ErrorIs(t, err, ioErr)
		_, err = svc.Get(ctx, 1)
		assert.ErrorIs(t, err, ioErr)
		_, err = svc.Create(ctx, book.Candidate{Title: "A", Author: "B", Year: 1})
		assert.ErrorIs(t, err, ioErr)
		_, err = svc.Update(ctx, 1, book.Candidate{Title: "A", Author: "B", Year: 1})
		assert.ErrorIs(t, err, ioErr)
		assert.ErrorIs(t, svc.Delete(ctx, 1), ioErr)
		_, err = svc.Stats(ctx)
		assert.ErrorIs(t, err, ioErr)
	})

	t.Run("save failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockStore := book.NewMockStore(ctrl)
		mockStore.EXPECT().Load(gomock.Any()).Return(testutil.SampleBooks(), nil)
		mockStore.EXPECT().Save(gomock.Any(), gomock.Len(4)).Return(ioErr)
		svc := book.NewService(mockStore)

		_, err := svc.Create(ctx, book.Candidate{Title: "A", Author: "B", Year: 1})
		assert.ErrorIs(t, err, ioErr)
	})

	t.Run("invalid candidate never touches the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockStore := book.NewMockStore(ctrl)
		svc := book.NewService(mockStore)

		_, err := svc.Create(ctx, book.Candidate{Title: "A", Author: "B"})
		var verr *book.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("delete of missing id does not save", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockStore := book.NewMockStore(ctrl)
		mockStore.EXPECT().Load(gomock.Any()).Return(testutil.SampleBooks(), nil)
		svc := book.NewService(mockStore)

		assert.ErrorIs(t, svc.Delete(ctx, 10), book.ErrNotFound)
	})
}

func TestService_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	svc, s := newService(nil)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, book.Candidate{Title: "T", Author: "A", Year: 2000})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	books, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, books, n)
	for i, b := range books {
		assert.Equal(t, i+1, b.ID)
	}
}
