package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

const sharedSchema = `
CREATE TABLE IF NOT EXISTS users (
	id {{id}},
	user_name TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL DEFAULT '',
	password TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	refresh_token TEXT NOT NULL DEFAULT '',
	created_at {{time}} NOT NULL
);
CREATE TABLE IF NOT EXISTS favorites (
	id {{id}},
	user_id BIGINT NOT NULL,
	letter TEXT NOT NULL,
	verb_id BIGINT NOT NULL,
	created_at {{time}} NOT NULL,
	UNIQUE (user_id, letter, verb_id)
);
CREATE TABLE IF NOT EXISTS verb_lists (
	id {{id}},
	user_id BIGINT NOT NULL,
	list_name TEXT NOT NULL,
	created_at {{time}} NOT NULL,
	UNIQUE (user_id, list_name)
);
CREATE TABLE IF NOT EXISTS verb_list_items (
	id {{id}},
	list_id BIGINT NOT NULL,
	letter TEXT NOT NULL,
	verb_id BIGINT NOT NULL,
	due {{time}},
	created_at {{time}} NOT NULL,
	UNIQUE (list_id, letter, verb_id)
);
CREATE INDEX IF NOT EXISTS favorites_verb_idx ON favorites (letter, verb_id);
CREATE INDEX IF NOT EXISTS verb_list_items_verb_idx ON verb_list_items (letter, verb_id)
`

func (db *DB) render(ddl string) string {
	return strings.NewReplacer("{{id}}", db.Dialect.IDColumn, "{{time}}", db.Dialect.TimeType).Replace(ddl)
}

func (db *DB) shardSchema(s *ShardTables) []string {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id {{id}},
	slug TEXT NOT NULL UNIQUE,
	infinitive TEXT NOT NULL,
	preposition TEXT NOT NULL DEFAULT '',
	grammatical_case TEXT NOT NULL DEFAULT '',
	auxiliary TEXT NOT NULL DEFAULT 'haben',
	irregular BOOLEAN NOT NULL DEFAULT FALSE,
	description TEXT NOT NULL DEFAULT '',
	search_key TEXT NOT NULL,
	created_at {{time}} NOT NULL,
	updated_at {{time}} NOT NULL
)`, s.Verbs),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_search_idx ON %s (search_key)`, s.Verbs, s.Verbs),
	}
	for _, lang := range domain.Languages() {
		stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id {{id}},
	verb_id BIGINT NOT NULL UNIQUE,
	translation TEXT NOT NULL
)`, s.Translations[lang]))
	}
	for _, t := range domain.Tenses() {
		stmts = append(stmts,
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id {{id}},
	verb_id BIGINT NOT NULL UNIQUE,
	ich TEXT NOT NULL,
	du TEXT NOT NULL,
	er TEXT NOT NULL,
	wir TEXT NOT NULL,
	ihr TEXT NOT NULL,
	sie TEXT NOT NULL
)`, s.Conjugations[t]),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id {{id}},
	verb_id BIGINT NOT NULL,
	position INTEGER NOT NULL,
	sentence TEXT NOT NULL
)`, s.Sentences[t]),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_verb_idx ON %s (verb_id, position)`, s.Sentences[t], s.Sentences[t]),
		)
		for _, lang := range domain.Languages() {
			stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id {{id}},
	sentence_id BIGINT NOT NULL UNIQUE,
	verb_id BIGINT NOT NULL,
	translation TEXT NOT NULL
)`, s.SentenceTranslations[t][lang]))
		}
	}
	return stmts
}

// Migrate creates the shared tables and every letter shard. It is safe to run repeatedly.
func (db *DB) Migrate(ctx context.Context, c *Collections) error {
	stmts := strings.Split(sharedSchema, ";")
	for _, l := range c.Letters() {
		s, err := c.Shard(l)
		if err != nil {
			return err
		}
		stmts = append(stmts, db.shardSchema(s)...)
	}
	return inTx(ctx, db.DB, func(q querier) error {
		for _, stmt := range stmts {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := q.ExecContext(ctx, db.render(stmt)); err != nil {
				return fmt.Errorf("migration failed: %w\n%s", err, stmt)
			}
		}
		return nil
	})
}

// Truncate empties every sharded table together with the favorites and list
// items that point into them.
func (db *DB) Truncate(ctx context.Context, c *Collections) error {
	tables := append([]string{"favorites", "verb_list_items"}, c.All()...)
	return inTx(ctx, db.DB, func(q querier) error {
		for _, table := range tables {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to truncate %s: %w", table, err)
			}
		}
		return nil
	})
}
