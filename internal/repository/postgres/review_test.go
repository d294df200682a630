package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/reviews_app/internal/domain"
)

var reviewRowColumns = []string{"id", "product_id", "text", "rating", "is_deleted"}

func TestReviewRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery("INSERT INTO reviews").
		WithArgs(1, "Great desk", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_deleted"}).AddRow(10, false))

	review := &domain.Review{ProductID: 1, Text: "Great desk", Rating: 5}
	err := repo.Create(context.Background(), review)

	require.NoError(t, err)
	assert.Equal(t, int64(10), review.ID)
	assert.False(t, review.IsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID_IncludesDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).AddRow(3, 1, "meh", 2, true))

	review, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.True(t, review.IsDeleted)
	assert.Equal(t, 2, review.Rating)
}

func TestReviewRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery("FROM reviews WHERE id").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns))

	_, err := repo.GetByID(context.Background(), 3)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepository_List_AllProducts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM reviews WHERE is_deleted = $1 ORDER BY rating DESC, id ASC LIMIT $2 OFFSET $3",
	)).
		WithArgs(false, 10, 20).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns).
			AddRow(1, 1, "Great desk", 5, false).
			AddRow(2, 1, "The worst desk", 1, false))

	reviews, err := repo.List(context.Background(), domain.ReviewFilter{}, domain.PageRequest{Page: 2, Size: 10})

	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_List_ProductDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	productID := int64(7)
	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE is_deleted = $1 AND product_id = $2 ORDER BY rating DESC, id ASC LIMIT $3 OFFSET $4",
	)).
		WithArgs(true, productID, 5, 0).
		WillReturnRows(sqlmock.NewRows(reviewRowColumns))

	reviews, err := repo.List(
		context.Background(),
		domain.ReviewFilter{ProductID: &productID, ShowDeleted: true},
		domain.PageRequest{Page: 0, Size: 5},
	)

	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Count(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	productID := int64(7)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews WHERE is_deleted = $1 AND product_id = $2")).
		WithArgs(false, productID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.Count(context.Background(), domain.ReviewFilter{ProductID: &productID})

	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestReviewRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery("UPDATE reviews").
		WithArgs(2, "changed", 4, 9).
		WillReturnRows(sqlmock.NewRows([]string{"is_deleted"}).AddRow(true))

	review := &domain.Review{ID: 9, ProductID: 2, Text: "changed", Rating: 4}
	err := repo.Update(context.Background(), review)

	require.NoError(t, err)
	assert.True(t, review.IsDeleted, "is_deleted is read back, not overwritten")
}

func TestReviewRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectQuery("UPDATE reviews").
		WillReturnRows(sqlmock.NewRows([]string{"is_deleted"}))

	err := repo.Update(context.Background(), &domain.Review{ID: 9})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepository_SoftDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET is_deleted = TRUE WHERE id = $1")).
		WithArgs(404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 404)

	assert.NoError(t, err, "missing rows are not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_SoftDeleteAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET is_deleted = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 12))

	assert.NoError(t, repo.SoftDeleteAll(context.Background()))
}

func TestReviewRepository_SoftDeleteAll_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReviewRepository(db)

	mock.ExpectExec("UPDATE reviews").
		WillReturnError(errors.New("connection reset"))

	err := repo.SoftDeleteAll(context.Background())

	assert.ErrorContains(t, err, "soft-delete all reviews")
}
