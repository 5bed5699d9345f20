package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t, "park:secret@tcp(db:3306)/enjoypark?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN("park", "secret", "db", "3306", "enjoypark"))
	assert.Equal(t, "park@tcp(db:3306)/enjoypark?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN("park", "", "db", "3306", "enjoypark"))
}

func TestMigrateCreatesEveryTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, s := range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + s.table + " ").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS attractions ").WillReturnError(errors.New("denied"))
	err = Migrate(context.Background(), db)
	assert.ErrorContains(t, err, "create attractions table")
}
