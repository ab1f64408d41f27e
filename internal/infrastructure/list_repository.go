package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

type ListRepository struct {
	q     querier
	verbs *VerbRepository
}

func NewListRepository(db *DB, verbs *VerbRepository) *ListRepository {
	return &ListRepository{q: db.DB, verbs: verbs}
}

const listQuery = `
	SELECT l.id, l.user_id, l.list_name, l.created_at,
		(SELECT COUNT(*) FROM verb_list_items i WHERE i.list_id = l.id)
	FROM verb_lists l`

func scanList(s scanner) (*domain.VerbList, error) {
	var l domain.VerbList
	if err := s.Scan(&l.ID, &l.UserID, &l.Name, &l.CreatedAt, &l.ItemCount); err != nil {
		return nil, err
	}
	return &l, nil
}

// owned fails with ErrNotFound unless listID belongs to userID.
func (lr *ListRepository) owned(ctx context.Context, userID, listID int64) error {
	var id int64
	err := lr.q.QueryRowContext(ctx, "SELECT id FROM verb_lists WHERE id = $1 AND user_id = $2", listID, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("list %d: %w", listID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("could not check list ownership: %w", err)
	}
	return nil
}

func (lr *ListRepository) nameTaken(ctx context.Context, userID int64, name string, exceptID int64) error {
	var id int64
	err := lr.q.QueryRowContext(ctx, "SELECT id FROM verb_lists WHERE user_id = $1 AND list_name = $2", userID, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && id == exceptID) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not check list name: %w", err)
	}
	return fmt.Errorf("list %q: %w", name, domain.ErrConflict)
}

func (lr *ListRepository) Create(ctx context.Context, userID int64, name string) (*domain.VerbList, error) {
	var listID int64
	err := inTx(ctx, lr.q, func(q querier) error {
		tx := &ListRepository{q: q, verbs: lr.verbs}
		if err := tx.nameTaken(ctx, userID, name, 0); err != nil {
			return err
		}
		err := q.QueryRowContext(ctx,
			"INSERT INTO verb_lists (user_id, list_name, created_at) VALUES ($1, $2, $3) RETURNING id",
			userID, name, time.Now().UTC(),
		).Scan(&listID)
		if isUniqueViolation(err) {
			return fmt.Errorf("list %q: %w", name, domain.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to create a list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lr.Get(ctx, userID, listID)
}

func (lr *ListRepository) Rename(ctx context.Context, userID, listID int64, name string) (*domain.VerbList, error) {
	err := inTx(ctx, lr.q, func(q querier) error {
		tx := &ListRepository{q: q, verbs: lr.verbs}
		if err := tx.owned(ctx, userID, listID); err != nil {
			return err
		}
		if err := tx.nameTaken(ctx, userID, name, listID); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, "UPDATE verb_lists SET list_name = $1 WHERE id = $2", name, listID)
		if isUniqueViolation(err) {
			return fmt.Errorf("list %q: %w", name, domain.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to rename list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lr.Get(ctx, userID, listID)
}

func (lr *ListRepository) Delete(ctx context.Context, userID, listID int64) error {
	return inTx(ctx, lr.q, func(q querier) error {
		tx := &ListRepository{q: q, verbs: lr.verbs}
		if err := tx.owned(ctx, userID, listID); err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM verb_list_items WHERE list_id = $1", listID); err != nil {
			return fmt.Errorf("failed to delete list items: %w", err)
		}
		if _, err := q.ExecContext(ctx, "DELETE FROM verb_lists WHERE id = $1", listID); err != nil {
			return fmt.Errorf("failed to delete list: %w", err)
		}
		return nil
	})
}

func (lr *ListRepository) Get(ctx context.Context, userID, listID int64) (*domain.VerbList, error) {
	l, err := scanList(lr.q.QueryRowContext(ctx, listQuery+" WHERE l.id = $1 AND l.user_id = $2", listID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %d: %w", listID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return l, nil
}

func (lr *ListRepository) ListByUser(ctx context.Context, userID int64) ([]domain.VerbList, error) {
	rows, err := lr.q.QueryContext(ctx, listQuery+" WHERE l.user_id = $1 ORDER BY l.created_at, l.id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lists for user_id %d: %w", userID, err)
	}
	defer rows.Close()

	lists := make([]domain.VerbList, 0)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list row: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (lr *ListRepository) items(ctx context.Context, listID int64, where string, args ...any) ([]domain.VerbListItem, error) {
	rows, err := lr.q.QueryContext(ctx, `
		SELECT id, letter, verb_id, due, created_at FROM verb_list_items
		WHERE list_id = $1`+where+`
		ORDER BY created_at, id`, append([]any{listID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve items of list %d: %w", listID, err)
	}
	items := make([]domain.VerbListItem, 0)
	var refs []domain.VerbRef
	for rows.Next() {
		var item domain.VerbListItem
		var letter string
		var due sql.NullTime
		if err := rows.Scan(&item.ID, &letter, &item.Verb.ID, &due, &item.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan list item row: %w", err)
		}
		item.ListID = listID
		item.Verb.Letter = domain.Letter(letter)
		if due.Valid {
			t := due.Time
			item.Due = &t
		}
		items = append(items, item)
		refs = append(refs, item.Verb.Ref())
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	verbs, err := lr.verbs.ByRefs(ctx, refs)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if v, ok := verbs[item.Verb.Ref()]; ok {
			item.Verb = v
			out = append(out, item)
		}
	}
	return out, nil
}

func (lr *ListRepository) Items(ctx context.Context, userID, listID int64) ([]domain.VerbListItem, error) {
	if err := lr.owned(ctx, userID, listID); err != nil {
		return nil, err
	}
	return lr.items(ctx, listID, "")
}

// AddVerb puts a verb on a list; it is due for practice right away. Adding it twice returns the existing item.
func (lr *ListRepository) AddVerb(ctx context.Context, userID, listID int64, ref domain.VerbRef) (*domain.VerbListItem, error) {
	if err := lr.owned(ctx, userID, listID); err != nil {
		return nil, err
	}
	if err := lr.verbs.exists(ctx, ref); err != nil {
		return nil, err
	}
	_, err := lr.q.ExecContext(ctx, `
		INSERT INTO verb_list_items (list_id, letter, verb_id, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (list_id, letter, verb_id) DO NOTHING`,
		listID, string(ref.Letter), ref.ID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to associate verb with list: %w", err)
	}
	items, err := lr.items(ctx, listID, " AND letter = $2 AND verb_id = $3", string(ref.Letter), ref.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("verb %s/%d: %w", ref.Letter, ref.ID, domain.ErrNotFound)
	}
	return &items[0], nil
}

func (lr *ListRepository) RemoveVerb(ctx context.Context, userID, listID int64, ref domain.VerbRef) error {
	if err := lr.owned(ctx, userID, listID); err != nil {
		return err
	}
	result, err := lr.q.ExecContext(ctx,
		"DELETE FROM verb_list_items WHERE list_id = $1 AND letter = $2 AND verb_id = $3",
		listID, string(ref.Letter), ref.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove verb from list: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("verb %s/%d on list %d: %w", ref.Letter, ref.ID, listID, domain.ErrNotFound)
	}
	return nil
}

// DueItems returns the items that were never practised or whose due time has passed.
func (lr *ListRepository) DueItems(ctx context.Context, userID, listID int64, now time.Time) ([]domain.VerbListItem, error) {
	items, err := lr.Items(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	due := items[:0]
	for _, item := range items {
		if item.Due == nil || !item.Due.After(now) {
			due = append(due, item)
		}
	}
	return due, nil
}

func (lr *ListRepository) SetDue(ctx context.Context, userID, listID, itemID int64, due time.Time) (*domain.VerbListItem, error) {
	if err := lr.owned(ctx, userID, listID); err != nil {
		return nil, err
	}
	result, err := lr.q.ExecContext(ctx,
		"UPDATE verb_list_items SET due = $1 WHERE id = $2 AND list_id = $3", due.UTC(), itemID, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to reschedule item: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("list item %d: %w", itemID, domain.ErrNotFound)
	}
	items, err := lr.items(ctx, listID, " AND id = $2", itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("list item %d: %w", itemID, domain.ErrNotFound)
	}
	return &items[0], nil
}
