package repository

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestPageBounds(t *testing.T) {
	limit, offset := pageBounds(0, 0)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageBounds(3, 500)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 40, offset)

	limit, offset = pageBounds(2, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 10, offset)
}

func TestConditions(t *testing.T) {
	var c conditions
	assert.Equal(t, "", c.where())

	c.add("status = %s", "pending")
	c.add("(name ILIKE %s OR email ILIKE %s)", "%a%", "%a%")
	assert.Equal(t, " WHERE status = $1 AND (name ILIKE $2 OR email ILIKE $3)", c.where())
	assert.Len(t, c.args, 3)
}
