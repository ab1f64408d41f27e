package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/infrastructure"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/pagination"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	verbs     *infrastructure.VerbRepository
	auth      *infrastructure.AuthRepository
	favorites *infrastructure.FavoritesRepository
	lists     *infrastructure.ListRepository
	jwt       *JWTAuth
	limits    pagination.Limits
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := infrastructure.Open(ctx, infrastructure.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c := infrastructure.NewCollections()
	require.NoError(t, db.Migrate(ctx, c))

	verbs := infrastructure.NewVerbRepository(db, c)
	auth := infrastructure.NewAuthRepository(db).WithCost(bcrypt.MinCost)
	return &fixture{
		verbs:     verbs,
		auth:      auth,
		favorites: infrastructure.NewFavoritesRepository(db, verbs),
		lists:     infrastructure.NewListRepository(db, verbs),
		jwt:       NewJWTAuth(auth, "access-secret", "refresh-secret", "verben-test", 24*time.Hour, 15*time.Minute),
		limits:    pagination.Limits{DefaultPerPage: 2, MaxPerPage: 5},
	}
}

func (f *fixture) verb(t *testing.T, infinitive, preposition, c string) *domain.Verb {
	t.Helper()
	v, err := NewVerbService(f.verbs, f.limits).Create(context.Background(), domain.VerbInput{
		Infinitive:  infinitive,
		Preposition: preposition,
		Case:        c,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) user(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := NewAuthService(f.auth, f.jwt).CreateUser(context.Background(), domain.AuthCredentials{
		Username: username,
		Password: "passwort123",
	}, domain.RoleUser)
	require.NoError(t, err)
	return u
}
