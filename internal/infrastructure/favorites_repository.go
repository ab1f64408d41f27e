package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

type FavoritesRepository struct {
	q     querier
	verbs *VerbRepository
}

func NewFavoritesRepository(db *DB, verbs *VerbRepository) *FavoritesRepository {
	return &FavoritesRepository{q: db.DB, verbs: verbs}
}

// Add marks a verb as favorite; adding it twice is not an error.
func (f *FavoritesRepository) Add(ctx context.Context, userID int64, ref domain.VerbRef) error {
	if err := f.verbs.exists(ctx, ref); err != nil {
		return err
	}
	_, err := f.q.ExecContext(ctx, `
		INSERT INTO favorites (user_id, letter, verb_id, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, letter, verb_id) DO NOTHING`,
		userID, string(ref.Letter), ref.ID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (f *FavoritesRepository) Remove(ctx context.Context, userID int64, ref domain.VerbRef) error {
	result, err := f.q.ExecContext(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND letter = $2 AND verb_id = $3",
		userID, string(ref.Letter), ref.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("favorite %s/%d: %w", ref.Letter, ref.ID, domain.ErrNotFound)
	}
	return nil
}

func (f *FavoritesRepository) Contains(ctx context.Context, userID int64, ref domain.VerbRef) (bool, error) {
	var n int
	err := f.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM favorites WHERE user_id = $1 AND letter = $2 AND verb_id = $3",
		userID, string(ref.Letter), ref.ID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("could not check favorite: %w", err)
	}
	return n > 0, nil
}

func (f *FavoritesRepository) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := f.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM favorites WHERE user_id = $1", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count favorites for user_id %d: %w", userID, err)
	}
	return n, nil
}

// List returns the newest favorites first.
func (f *FavoritesRepository) List(ctx context.Context, userID int64, offset, limit int) ([]domain.Favorite, error) {
	rows, err := f.q.QueryContext(ctx, `
		SELECT id, letter, verb_id, created_at FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve favorites for user_id %d: %w", userID, err)
	}
	favorites := make([]domain.Favorite, 0)
	var refs []domain.VerbRef
	for rows.Next() {
		var fav domain.Favorite
		var letter string
		if err := rows.Scan(&fav.ID, &letter, &fav.Verb.ID, &fav.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		fav.UserID = userID
		fav.Verb.Letter = domain.Letter(letter)
		favorites = append(favorites, fav)
		refs = append(refs, fav.Verb.Ref())
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	verbs, err := f.verbs.ByRefs(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := favorites[:0]
	for _, fav := range favorites {
		if v, ok := verbs[fav.Verb.Ref()]; ok {
			fav.Verb = v
			out = append(out, fav)
		}
	}
	return out, nil
}
