package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/pagination"
)

const verbColumns = `id, slug, infinitive, preposition, grammatical_case, auxiliary, irregular, description, created_at, updated_at`

type VerbRepository struct {
	q   querier
	c   *Collections
	now func() time.Time
}

// NewVerbRepository creates a repository over the letter-sharded verb tables.
func NewVerbRepository(db *DB, c *Collections) *VerbRepository {
	return &VerbRepository{q: db.DB, c: c, now: time.Now}
}

// InTx runs fn with a repository bound to a single transaction.
func (r *VerbRepository) InTx(ctx context.Context, fn func(tx *VerbRepository) error) error {
	return inTx(ctx, r.q, func(q querier) error {
		return fn(&VerbRepository{q: q, c: r.c, now: r.now})
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVerb(s scanner, letter domain.Letter) (domain.Verb, error) {
	var v domain.Verb
	var c, aux string
	err := s.Scan(&v.ID, &v.Slug, &v.Infinitive, &v.Preposition, &c, &aux, &v.Irregular, &v.Description, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return v, err
	}
	v.Letter = letter
	v.Case = domain.Case(c)
	v.Auxiliary = domain.Auxiliary(aux)
	return v, nil
}

func (r *VerbRepository) queryVerbs(ctx context.Context, letter domain.Letter, query string, args ...any) ([]domain.Verb, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query verbs for letter %s: %w", letter, err)
	}
	defer rows.Close()

	var verbs []domain.Verb
	for rows.Next() {
		v, err := scanVerb(rows, letter)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verb row: %w", err)
		}
		verbs = append(verbs, v)
	}
	return verbs, rows.Err()
}

func (r *VerbRepository) Count(ctx context.Context, letter domain.Letter) (int, error) {
	table, err := r.c.Verbs(letter)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count verbs for letter %s: %w", letter, err)
	}
	return n, nil
}

func (r *VerbRepository) CountByLetter(ctx context.Context) (map[domain.Letter]int, error) {
	counts := make(map[domain.Letter]int)
	for _, l := range r.c.Letters() {
		n, err := r.Count(ctx, l)
		if err != nil {
			return nil, err
		}
		counts[l] = n
	}
	return counts, nil
}

func (r *VerbRepository) CountAll(ctx context.Context) (int, error) {
	counts, err := r.CountByLetter(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

func (r *VerbRepository) List(ctx context.Context, letter domain.Letter, offset, limit int) ([]domain.Verb, error) {
	table, err := r.c.Verbs(letter)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY search_key, id LIMIT $1 OFFSET $2`, verbColumns, table)
	return r.queryVerbs(ctx, letter, query, limit, offset)
}

// ListAll pages through every shard in letter order.
func (r *VerbRepository) ListAll(ctx context.Context, offset, limit int) ([]domain.Verb, int, error) {
	letters := r.c.Letters()
	counts := make([]int, len(letters))
	total := 0
	for i, l := range letters {
		n, err := r.Count(ctx, l)
		if err != nil {
			return nil, 0, err
		}
		counts[i] = n
		total += n
	}
	var verbs []domain.Verb
	for _, w := range pagination.Span(counts, offset, limit) {
		page, err := r.List(ctx, letters[w.Shard], w.Offset, w.Limit)
		if err != nil {
			return nil, 0, err
		}
		verbs = append(verbs, page...)
	}
	return verbs, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches the folded query anywhere in the infinitive or preposition, across every shard.
func (r *VerbRepository) Search(ctx context.Context, query string, offset, limit int) ([]domain.Verb, int, error) {
	key := domain.SearchKey(query)
	if key == "" {
		return nil, 0, domain.Invalid("q", "must not be empty")
	}
	pattern := "%" + likeEscaper.Replace(key) + "%"

	letters := r.c.Letters()
	counts := make([]int, len(letters))
	total := 0
	for i, l := range letters {
		table, err := r.c.Verbs(l)
		if err != nil {
			return nil, 0, err
		}
		err = r.q.QueryRowContext(ctx,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE search_key LIKE $1 ESCAPE '\'`, table), pattern,
		).Scan(&counts[i])
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count search matches for letter %s: %w", l, err)
		}
		total += counts[i]
	}

	var verbs []domain.Verb
	for _, w := range pagination.Span(counts, offset, limit) {
		l := letters[w.Shard]
		table, _ := r.c.Verbs(l)
		page, err := r.queryVerbs(ctx, l,
			fmt.Sprintf(`SELECT %s FROM %s WHERE search_key LIKE $1 ESCAPE '\' ORDER BY search_key, id LIMIT $2 OFFSET $3`, verbColumns, table),
			pattern, w.Limit, w.Offset,
		)
		if err != nil {
			return nil, 0, err
		}
		verbs = append(verbs, page...)
	}
	return verbs, total, nil
}

func (r *VerbRepository) Get(ctx context.Context, letter domain.Letter, slug string) (*domain.Verb, error) {
	table, err := r.c.Verbs(letter)
	if err != nil {
		return nil, err
	}
	row := r.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE slug = $1`, verbColumns, table), slug)
	v, err := scanVerb(row, letter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verb %s/%s: %w", letter, slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verb %s/%s: %w", letter, slug, err)
	}
	return &v, nil
}

// ByRefs loads the verbs behind refs, one query per letter. Missing verbs are left out.
func (r *VerbRepository) ByRefs(ctx context.Context, refs []domain.VerbRef) (map[domain.VerbRef]domain.Verb, error) {
	byLetter := make(map[domain.Letter][]any)
	for _, ref := range refs {
		byLetter[ref.Letter] = append(byLetter[ref.Letter], ref.ID)
	}
	out := make(map[domain.VerbRef]domain.Verb, len(refs))
	for letter, ids := range byLetter {
		table, err := r.c.Verbs(letter)
		if err != nil {
			return nil, err
		}
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE id IN (%s)`, verbColumns, table, placeholders(len(ids), 1))
		verbs, err := r.queryVerbs(ctx, letter, query, ids...)
		if err != nil {
			return nil, err
		}
		for _, v := range verbs {
			out[v.Ref()] = v
		}
	}
	return out, nil
}

// GetByRef loads the verb with the given id from its letter shard.
func (r *VerbRepository) GetByRef(ctx context.Context, ref domain.VerbRef) (*domain.Verb, error) {
	table, err := r.c.Verbs(ref.Letter)
	if err != nil {
		return nil, err
	}
	row := r.q.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, verbColumns, table), ref.ID)
	v, err := scanVerb(row, ref.Letter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verb %s/%d: %w", ref.Letter, ref.ID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verb %s/%d: %w", ref.Letter, ref.ID, err)
	}
	return &v, nil
}

func (r *VerbRepository) exists(ctx context.Context, ref domain.VerbRef) error {
	_, err := r.GetByRef(ctx, ref)
	return err
}

func (r *VerbRepository) touch(ctx context.Context, ref domain.VerbRef) error {
	table, err := r.c.Verbs(ref.Letter)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, "UPDATE "+table+" SET updated_at = $1 WHERE id = $2", r.now().UTC(), ref.ID)
	if err != nil {
		return fmt.Errorf("failed to touch verb: %w", err)
	}
	return nil
}

// Detail loads a verb with its conjugations, sentences and the translations in langs.
func (r *VerbRepository) Detail(ctx context.Context, letter domain.Letter, slug string, langs []domain.Language) (*domain.VerbDetail, error) {
	v, err := r.Get(ctx, letter, slug)
	if err != nil {
		return nil, err
	}
	return r.detail(ctx, *v, langs)
}

func (r *VerbRepository) detail(ctx context.Context, v domain.Verb, langs []domain.Language) (*domain.VerbDetail, error) {
	d := &domain.VerbDetail{
		Verb:         v,
		Translations: make(map[domain.Language]string),
		Conjugations: []domain.Conjugation{},
		Sentences:    make(map[domain.Tense][]domain.Sentence),
	}
	for _, lang := range langs {
		table, err := r.c.Translations(v.Letter, lang)
		if err != nil {
			return nil, err
		}
		var text string
		err = r.q.QueryRowContext(ctx, "SELECT translation FROM "+table+" WHERE verb_id = $1", v.ID).Scan(&text)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get %s translation: %w", lang, err)
		}
		d.Translations[lang] = text
	}
	for _, tense := range domain.Tenses() {
		conj, err := r.conjugation(ctx, v.Ref(), tense)
		if err != nil {
			return nil, err
		}
		if conj != nil {
			d.Conjugations = append(d.Conjugations, *conj)
		}
		sentences, err := r.sentences(ctx, v.Ref(), tense, langs)
		if err != nil {
			return nil, err
		}
		if len(sentences) > 0 {
			d.Sentences[tense] = sentences
		}
	}
	return d, nil
}

func (r *VerbRepository) conjugation(ctx context.Context, ref domain.VerbRef, tense domain.Tense) (*domain.Conjugation, error) {
	table, err := r.c.Conjugations(ref.Letter, tense)
	if err != nil {
		return nil, err
	}
	c := domain.Conjugation{Tense: tense}
	err = r.q.QueryRowContext(ctx,
		"SELECT ich, du, er, wir, ihr, sie FROM "+table+" WHERE verb_id = $1", ref.ID,
	).Scan(&c.Ich, &c.Du, &c.Er, &c.Wir, &c.Ihr, &c.Sie)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s conjugation: %w", tense, err)
	}
	return &c, nil
}

func (r *VerbRepository) sentences(ctx context.Context, ref domain.VerbRef, tense domain.Tense, langs []domain.Language) ([]domain.Sentence, error) {
	table, err := r.c.Sentences(ref.Letter, tense)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.QueryContext(ctx,
		"SELECT id, position, sentence FROM "+table+" WHERE verb_id = $1 ORDER BY position, id", ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s sentences: %w", tense, err)
	}
	var sentences []domain.Sentence
	index := make(map[int64]int)
	for rows.Next() {
		s := domain.Sentence{Tense: tense, Translations: make(map[domain.Language]string)}
		if err := rows.Scan(&s.ID, &s.Position, &s.Text); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sentence row: %w", err)
		}
		index[s.ID] = len(sentences)
		sentences = append(sentences, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, nil
	}

	for _, lang := range langs {
		table, err := r.c.SentenceTranslations(ref.Letter, tense, lang)
		if err != nil {
			return nil, err
		}
		rows, err := r.q.QueryContext(ctx, "SELECT sentence_id, translation FROM "+table+" WHERE verb_id = $1", ref.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s sentence translations: %w", lang, err)
		}
		for rows.Next() {
			var id int64
			var text string
			if err := rows.Scan(&id, &text); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan sentence translation row: %w", err)
			}
			if i, ok := index[id]; ok {
				sentences[i].Translations[lang] = text
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	return sentences, nil
}

func (r *VerbRepository) slugTaken(ctx context.Context, letter domain.Letter, slug string, exceptID int64) error {
	table, err := r.c.Verbs(letter)
	if err != nil {
		return err
	}
	var id int64
	err = r.q.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE slug = $1", slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not check slug existence: %w", err)
	}
	if id == exceptID {
		return nil
	}
	return fmt.Errorf("verb %s/%s: %w", letter, slug, domain.ErrConflict)
}

func (r *VerbRepository) insert(ctx context.Context, v domain.Verb) (*domain.Verb, error) {
	table, err := r.c.Verbs(v.Letter)
	if err != nil {
		return nil, err
	}
	now := r.now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	err = r.q.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (slug, infinitive, preposition, grammatical_case, auxiliary, irregular, description, search_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`, table),
		v.Slug, v.Infinitive, v.Preposition, string(v.Case), string(v.Auxiliary), v.Irregular, v.Description,
		domain.SearchKey(v.Infinitive+" "+v.Preposition), v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("verb %s/%s: %w", v.Letter, v.Slug, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert verb %s: %w", v.Slug, err)
	}
	return &v, nil
}

func (r *VerbRepository) update(ctx context.Context, id int64, v domain.Verb) (*domain.Verb, error) {
	table, err := r.c.Verbs(v.Letter)
	if err != nil {
		return nil, err
	}
	v.ID = id
	v.UpdatedAt = r.now().UTC()
	err = r.q.QueryRowContext(ctx, fmt.Sprintf(`
		UPDATE %s SET slug = $1, infinitive = $2, preposition = $3, grammatical_case = $4, auxiliary = $5,
			irregular = $6, description = $7, search_key = $8, updated_at = $9
		WHERE id = $10
		RETURNING created_at`, table),
		v.Slug, v.Infinitive, v.Preposition, string(v.Case), string(v.Auxiliary), v.Irregular, v.Description,
		domain.SearchKey(v.Infinitive+" "+v.Preposition), v.UpdatedAt, id,
	).Scan(&v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verb %s/%d: %w", v.Letter, id, domain.ErrNotFound)
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("verb %s/%s: %w", v.Letter, v.Slug, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update verb %s: %w", v.Slug, err)
	}
	return &v, nil
}

// Create inserts a new verb into the shard of its letter.
func (r *VerbRepository) Create(ctx context.Context, v domain.Verb) (*domain.Verb, error) {
	var created *domain.Verb
	err := r.InTx(ctx, func(tx *VerbRepository) error {
		if err := tx.slugTaken(ctx, v.Letter, v.Slug, 0); err != nil {
			return err
		}
		var err error
		created, err = tx.insert(ctx, v)
		return err
	})
	return created, err
}

// Upsert inserts the verb or overwrites the one with the same slug. It reports whether a row was inserted.
func (r *VerbRepository) Upsert(ctx context.Context, v domain.Verb) (*domain.Verb, bool, error) {
	var saved *domain.Verb
	inserted := false
	err := r.InTx(ctx, func(tx *VerbRepository) error {
		current, err := tx.Get(ctx, v.Letter, v.Slug)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			inserted = true
			saved, err = tx.insert(ctx, v)
			return err
		case err != nil:
			return err
		}
		saved, err = tx.update(ctx, current.ID, v)
		return err
	})
	return saved, inserted, err
}

// Update rewrites the verb at letter/slug. When the new infinitive starts with
// another letter the verb is moved to that shard with all of its children,
// and favorites and list items are repointed.
func (r *VerbRepository) Update(ctx context.Context, letter domain.Letter, slug string, v domain.Verb) (*domain.Verb, error) {
	var saved *domain.Verb
	err := r.InTx(ctx, func(tx *VerbRepository) error {
		current, err := tx.Get(ctx, letter, slug)
		if err != nil {
			return err
		}
		if v.Letter == current.Letter {
			if err := tx.slugTaken(ctx, v.Letter, v.Slug, current.ID); err != nil {
				return err
			}
			saved, err = tx.update(ctx, current.ID, v)
			return err
		}
		if err := tx.slugTaken(ctx, v.Letter, v.Slug, 0); err != nil {
			return err
		}
		saved, err = tx.move(ctx, *current, v)
		return err
	})
	return saved, err
}

func (r *VerbRepository) move(ctx context.Context, from domain.Verb, to domain.Verb) (*domain.Verb, error) {
	d, err := r.detail(ctx, from, domain.Languages())
	if err != nil {
		return nil, err
	}
	to.CreatedAt = from.CreatedAt
	moved, err := r.insert(ctx, to)
	if err != nil {
		return nil, err
	}
	ref := moved.Ref()
	for lang, text := range d.Translations {
		if err := r.upsertTranslation(ctx, ref, domain.Translation{Language: lang, Text: text}); err != nil {
			return nil, err
		}
	}
	for _, c := range d.Conjugations {
		if err := r.upsertConjugation(ctx, ref, c); err != nil {
			return nil, err
		}
	}
	for tense, sentences := range d.Sentences {
		for _, s := range sentences {
			if _, err := r.insertSentence(ctx, ref, tense, s.Position, domain.SentenceInput{Text: s.Text, Translations: s.Translations}); err != nil {
				return nil, err
			}
		}
	}
	for _, table := range []string{"favorites", "verb_list_items"} {
		_, err := r.q.ExecContext(ctx,
			"UPDATE "+table+" SET letter = $1, verb_id = $2 WHERE letter = $3 AND verb_id = $4",
			string(ref.Letter), ref.ID, string(from.Letter), from.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to repoint %s: %w", table, err)
		}
	}
	if err := r.deleteVerb(ctx, from.Ref(), false); err != nil {
		return nil, err
	}
	return moved, nil
}

func (r *VerbRepository) deleteVerb(ctx context.Context, ref domain.VerbRef, dropReferences bool) error {
	shard, err := r.c.Shard(ref.Letter)
	if err != nil {
		return err
	}
	for _, table := range shard.Children() {
		if _, err := r.q.ExecContext(ctx, "DELETE FROM "+table+" WHERE verb_id = $1", ref.ID); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	if dropReferences {
		for _, table := range []string{"favorites", "verb_list_items"} {
			_, err := r.q.ExecContext(ctx, "DELETE FROM "+table+" WHERE letter = $1 AND verb_id = $2", string(ref.Letter), ref.ID)
			if err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
			}
		}
	}
	if _, err := r.q.ExecContext(ctx, "DELETE FROM "+shard.Verbs+" WHERE id = $1", ref.ID); err != nil {
		return fmt.Errorf("failed to delete verb: %w", err)
	}
	return nil
}

// Delete removes a verb, everything stored for it and every favorite or list item pointing at it.
func (r *VerbRepository) Delete(ctx context.Context, letter domain.Letter, slug string) error {
	return r.InTx(ctx, func(tx *VerbRepository) error {
		v, err := tx.Get(ctx, letter, slug)
		if err != nil {
			return err
		}
		return tx.deleteVerb(ctx, v.Ref(), true)
	})
}

func (r *VerbRepository) upsertConjugation(ctx context.Context, ref domain.VerbRef, c domain.Conjugation) error {
	table, err := r.c.Conjugations(ref.Letter, c.Tense)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (verb_id, ich, du, er, wir, ihr, sie)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (verb_id) DO UPDATE SET
			ich = excluded.ich, du = excluded.du, er = excluded.er,
			wir = excluded.wir, ihr = excluded.ihr, sie = excluded.sie`, table),
		ref.ID, c.Ich, c.Du, c.Er, c.Wir, c.Ihr, c.Sie,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s conjugation: %w", c.Tense, err)
	}
	return nil
}

func (r *VerbRepository) UpsertConjugation(ctx context.Context, ref domain.VerbRef, c domain.Conjugation) error {
	return r.InTx(ctx, func(tx *VerbRepository) error {
		if err := tx.exists(ctx, ref); err != nil {
			return err
		}
		if err := tx.upsertConjugation(ctx, ref, c); err != nil {
			return err
		}
		return tx.touch(ctx, ref)
	})
}

func (r *VerbRepository) insertSentence(ctx context.Context, ref domain.VerbRef, tense domain.Tense, position int, in domain.SentenceInput) (*domain.Sentence, error) {
	table, err := r.c.Sentences(ref.Letter, tense)
	if err != nil {
		return nil, err
	}
	s := domain.Sentence{Tense: tense, Position: position, Text: domain.CleanText(in.Text), Translations: make(map[domain.Language]string)}
	err = r.q.QueryRowContext(ctx,
		"INSERT INTO "+table+" (verb_id, position, sentence) VALUES ($1, $2, $3) RETURNING id",
		ref.ID, position, s.Text,
	).Scan(&s.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s sentence: %w", tense, err)
	}
	langs := make([]domain.Language, 0, len(in.Translations))
	for lang := range in.Translations {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	for _, lang := range langs {
		text := domain.CleanText(in.Translations[lang])
		if text == "" {
			continue
		}
		if err := r.upsertSentenceTranslation(ctx, ref, tense, s.ID, domain.Translation{Language: lang, Text: text}); err != nil {
			return nil, err
		}
		s.Translations[lang] = text
	}
	return &s, nil
}

// AddSentence appends a sentence after the verb's existing sentences of that tense.
func (r *VerbRepository) AddSentence(ctx context.Context, ref domain.VerbRef, tense domain.Tense, in domain.SentenceInput) (*domain.Sentence, error) {
	var s *domain.Sentence
	err := r.InTx(ctx, func(tx *VerbRepository) error {
		if err := tx.exists(ctx, ref); err != nil {
			return err
		}
		table, err := tx.c.Sentences(ref.Letter, tense)
		if err != nil {
			return err
		}
		var last int
		err = tx.q.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), 0) FROM "+table+" WHERE verb_id = $1", ref.ID).Scan(&last)
		if err != nil {
			return fmt.Errorf("failed to get last sentence position: %w", err)
		}
		s, err = tx.insertSentence(ctx, ref, tense, last+1, in)
		if err != nil {
			return err
		}
		return tx.touch(ctx, ref)
	})
	return s, err
}

// ReplaceSentences swaps all sentences of a verb in one tense for the given ones.
func (r *VerbRepository) ReplaceSentences(ctx context.Context, ref domain.VerbRef, tense domain.Tense, sentences []domain.SentenceInput) error {
	return r.InTx(ctx, func(tx *VerbRepository) error {
		if err := tx.exists(ctx, ref); err != nil {
			return err
		}
		for _, lang := range domain.Languages() {
			table, err := tx.c.SentenceTranslations(ref.Letter, tense, lang)
			if err != nil {
				return err
			}
			if _, err := tx.q.ExecContext(ctx, "DELETE FROM "+table+" WHERE verb_id = $1", ref.ID); err != nil {
				return fmt.Errorf("failed to clear sentence translations: %w", err)
			}
		}
		table, err := tx.c.Sentences(ref.Letter, tense)
		if err != nil {
			return err
		}
		if _, err := tx.q.ExecContext(ctx, "DELETE FROM "+table+" WHERE verb_id = $1", ref.ID); err != nil {
			return fmt.Errorf("failed to clear sentences: %w", err)
		}
		for i, in := range sentences {
			if _, err := tx.insertSentence(ctx, ref, tense, i+1, in); err != nil {
				return err
			}
		}
		return tx.touch(ctx, ref)
	})
}

func (r *VerbRepository) DeleteSentence(ctx context.Context, ref domain.VerbRef, tense domain.Tense, sentenceID int64) error {
	return r.InTx(ctx, func(tx *VerbRepository) error {
		table, err := tx.c.Sentences(ref.Letter, tense)
		if err != nil {
			return err
		}
		res, err := tx.q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1 AND verb_id = $2", sentenceID, ref.ID)
		if err != nil {
			return fmt.Errorf("failed to delete sentence: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("sentence %d: %w", sentenceID, domain.ErrNotFound)
		}
		for _, lang := range domain.Languages() {
			table, err := tx.c.SentenceTranslations(ref.Letter, tense, lang)
			if err != nil {
				return err
			}
			if _, err := tx.q.ExecContext(ctx, "DELETE FROM "+table+" WHERE sentence_id = $1", sentenceID); err != nil {
				return fmt.Errorf("failed to delete sentence translation: %w", err)
			}
		}
		return tx.touch(ctx, ref)
	})
}

func (r *VerbRepository) upsertTranslation(ctx context.Context, ref domain.VerbRef, t domain.Translation) error {
	table, err := r.c.Translations(ref.Letter, t.Language)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (verb_id, translation) VALUES ($1, $2)
		ON CONFLICT (verb_id) DO UPDATE SET translation = excluded.translation`, table),
		ref.ID, domain.CleanText(t.Text),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s translation: %w", t.Language, err)
	}
	return nil
}

func (r *VerbRepository) UpsertTranslation(ctx context.Context, ref domain.VerbRef, t domain.Translation) error {
	return r.InTx(ctx, func(tx *VerbRepository) error {
		if err := tx.exists(ctx, ref); err != nil {
			return err
		}
		if err := tx.upsertTranslation(ctx, ref, t); err != nil {
			return err
		}
		return tx.touch(ctx, ref)
	})
}

func (r *VerbRepository) upsertSentenceTranslation(ctx context.Context, ref domain.VerbRef, tense domain.Tense, sentenceID int64, t domain.Translation) error {
	table, err := r.c.SentenceTranslations(ref.Letter, tense, t.Language)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (sentence_id, verb_id, translation) VALUES ($1, $2, $3)
		ON CONFLICT (sentence_id) DO UPDATE SET translation = excluded.translation`, table),
		sentenceID, ref.ID, domain.CleanText(t.Text),
	)
	if err != nil {
		return fmt.Errorf("failed to save %s sentence translation: %w", t.Language, err)
	}
	return nil
}

func (r *VerbRepository) UpsertSentenceTranslation(ctx context.Context, ref domain.VerbRef, tense domain.Tense, sentenceID int64, t domain.Translation) error {
	return r.InTx(ctx, func(tx *VerbRepository) error {
		table, err := tx.c.Sentences(ref.Letter, tense)
		if err != nil {
			return err
		}
		var id int64
		err = tx.q.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE id = $1 AND verb_id = $2", sentenceID, ref.ID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sentence %d: %w", sentenceID, domain.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("could not check sentence existence: %w", err)
		}
		if err := tx.upsertSentenceTranslation(ctx, ref, tense, sentenceID, t); err != nil {
			return err
		}
		return tx.touch(ctx, ref)
	})
}

func placeholders(n, start int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}
