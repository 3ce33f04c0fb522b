package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsCarryGooseSections(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		raw, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		body := string(raw)
		assert.True(t, strings.HasPrefix(body, "-- +goose Up"), name)
		assert.Contains(t, body, "-- +goose Down", name)
	}
}

func TestInitialSchemaEnforcesUniqueness(t *testing.T) {
	raw, err := fs.ReadFile(FS, "00001_init.sql")
	require.NoError(t, err)
	body := string(raw)

	for _, constraint := range []string{
		"UNIQUE (student_id, course_id, date)",
		"UNIQUE (student_id, course_id)",
		"users_email_key",
		"code          VARCHAR(32)  NOT NULL UNIQUE",
	} {
		assert.Contains(t, body, constraint)
	}
}
