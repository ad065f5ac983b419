package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestForeignKeyCascade(t *testing.T) {
	db, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db))

	res, err := db.Exec(`INSERT INTO people (name) VALUES ('Ada')`)
	require.NoError(t, err)
	personID, err := res.LastInsertId()
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO movies (person_id, title) VALUES (?, 'Alien')`, personID)
	require.NoError(t, err)

	// orphan inserts are refused
	_, err = db.Exec(`INSERT INTO movies (person_id, title) VALUES (9999, 'Nobody Owns Me')`)
	assert.Error(t, err)

	// removing the person takes the list with it
	_, err = db.Exec(`DELETE FROM people WHERE id = ?`, personID)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM movies WHERE person_id = ?`, personID).Scan(&n))
	assert.Zero(t, n)
}
