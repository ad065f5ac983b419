package people

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviweb/pkg/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewService(NewRepo(db))
}

func TestCreateTrimsAndPersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "  Ada  ")
	require.NoError(t, err)

	assert.Equal(t, "Ada", p.Name)
	assert.Positive(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreateValidatesNameBounds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "A")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Create(ctx, strings.Repeat("x", 101))
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Create(ctx, strings.Repeat("x", 100))
	assert.NoError(t, err)
}

func TestCreateCountsCharactersNotBytes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// 100 two-byte runes: fine as characters, 200 as bytes
	_, err := svc.Create(ctx, strings.Repeat("é", 100))
	assert.NoError(t, err)

	_, err = svc.Create(ctx, strings.Repeat("é", 101))
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateRejectsDuplicateNamesCaseInsensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Ada")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "ada")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestListReturnsCreationOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Ada", "Bob", "Cleo"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Ada", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)
	assert.Equal(t, "Cleo", list[2].Name)
}

func TestGetUnknownPerson(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
