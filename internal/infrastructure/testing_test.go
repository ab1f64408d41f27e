package infrastructure

import (
	"context"
	"testing"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*DB, *Collections) {
	t.Helper()
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := NewCollections()
	require.NoError(t, db.Migrate(context.Background(), c))
	return db, c
}

func mustVerb(t *testing.T, in domain.VerbInput) domain.Verb {
	t.Helper()
	v, err := in.Normalize()
	require.NoError(t, err)
	return v
}

func createVerb(t *testing.T, repo *VerbRepository, infinitive, preposition, c string) *domain.Verb {
	t.Helper()
	v, err := repo.Create(context.Background(), mustVerb(t, domain.VerbInput{
		Infinitive:  infinitive,
		Preposition: preposition,
		Case:        c,
	}))
	require.NoError(t, err)
	return v
}
