package repository

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceSelectionAssignsSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE customers SET selected = FALSE, selection_seq = 0`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE customers SET selected = TRUE, selection_seq = $2 WHERE id = $1`)).
		WithArgs("c9", 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE customers SET selected = TRUE, selection_seq = $2 WHERE id = $1`)).
		WithArgs("c2", 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &CustomerRepository{DB: db}
	require.NoError(t, repo.ReplaceSelection([]string{"c9", "c2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSelectedReturnsSelectionOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// "Zed" was selected before "Amy"; name order would invert them.
	rows := sqlmock.NewRows([]string{"id", "name", "mobile_number", "email", "age", "sex",
		"city", "state", "whatsapp_opt_in", "gmail_opt_in", "selected"}).
		AddRow("c9", "Zed", "15550009999", "zed@example.com", 30, "Male", "", "", "", "", true).
		AddRow("c2", "Amy", "15550002222", "amy@example.com", 25, "Female", "", "", "", "", true)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE selected ORDER BY selection_seq`)).WillReturnRows(rows)

	repo := &CustomerRepository{DB: db}
	got, err := repo.ListSelected()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Zed", got[0].Name)
	assert.Equal(t, "Amy", got[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductReplaceSelectionAssignsSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET selected = FALSE, selection_seq = 0`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET selected = TRUE, selection_seq = $2 WHERE id = $1`)).
		WithArgs("p3", 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := &ProductRepository{DB: db}
	require.NoError(t, repo.ReplaceSelection([]string{"p3"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
