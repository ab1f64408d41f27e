package infrastructure

import (
	"fmt"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

// ShardTables names every table that belongs to one letter.
type ShardTables struct {
	Letter               domain.Letter
	Verbs                string
	Translations         map[domain.Language]string
	Conjugations         map[domain.Tense]string
	Sentences            map[domain.Tense]string
	SentenceTranslations map[domain.Tense]map[domain.Language]string
}

// Collections is the registry of letter × tense × language tables.
// Every name is computed once in NewCollections; lookups never build a
// table name from unchecked input.
type Collections struct {
	letters   []domain.Letter
	tenses    []domain.Tense
	languages []domain.Language
	shards    map[domain.Letter]*ShardTables
}

func NewCollections() *Collections {
	c := &Collections{
		letters:   domain.Letters(),
		tenses:    domain.Tenses(),
		languages: domain.Languages(),
		shards:    make(map[domain.Letter]*ShardTables),
	}
	for _, l := range c.letters {
		base := "de_verbs_" + string(l)
		s := &ShardTables{
			Letter:               l,
			Verbs:                base,
			Translations:         make(map[domain.Language]string),
			Conjugations:         make(map[domain.Tense]string),
			Sentences:            make(map[domain.Tense]string),
			SentenceTranslations: make(map[domain.Tense]map[domain.Language]string),
		}
		for _, lang := range c.languages {
			s.Translations[lang] = fmt.Sprintf("%s_translations_%s", base, lang)
		}
		for _, t := range c.tenses {
			s.Conjugations[t] = fmt.Sprintf("%s_%s_conjugations", base, t)
			s.Sentences[t] = fmt.Sprintf("%s_%s_sentences", base, t)
			s.SentenceTranslations[t] = make(map[domain.Language]string)
			for _, lang := range c.languages {
				s.SentenceTranslations[t][lang] = fmt.Sprintf("%s_%s_sentences_%s", base, t, lang)
			}
		}
		c.shards[l] = s
	}
	return c
}

func (c *Collections) Letters() []domain.Letter { return c.letters }

func (c *Collections) Shard(letter domain.Letter) (*ShardTables, error) {
	s, ok := c.shards[letter]
	if !ok {
		return nil, domain.Invalid("letter", "unknown letter %q", letter)
	}
	return s, nil
}

func (c *Collections) Verbs(letter domain.Letter) (string, error) {
	s, err := c.Shard(letter)
	if err != nil {
		return "", err
	}
	return s.Verbs, nil
}

func (c *Collections) Translations(letter domain.Letter, lang domain.Language) (string, error) {
	s, err := c.Shard(letter)
	if err != nil {
		return "", err
	}
	name, ok := s.Translations[lang]
	if !ok {
		return "", domain.Invalid("lang", "unsupported language %q", lang)
	}
	return name, nil
}

func (c *Collections) Conjugations(letter domain.Letter, tense domain.Tense) (string, error) {
	s, err := c.Shard(letter)
	if err != nil {
		return "", err
	}
	name, ok := s.Conjugations[tense]
	if !ok {
		return "", domain.Invalid("tense", "unknown tense %q", tense)
	}
	return name, nil
}

func (c *Collections) Sentences(letter domain.Letter, tense domain.Tense) (string, error) {
	s, err := c.Shard(letter)
	if err != nil {
		return "", err
	}
	name, ok := s.Sentences[tense]
	if !ok {
		return "", domain.Invalid("tense", "unknown tense %q", tense)
	}
	return name, nil
}

func (c *Collections) SentenceTranslations(letter domain.Letter, tense domain.Tense, lang domain.Language) (string, error) {
	s, err := c.Shard(letter)
	if err != nil {
		return "", err
	}
	byLang, ok := s.SentenceTranslations[tense]
	if !ok {
		return "", domain.Invalid("tense", "unknown tense %q", tense)
	}
	name, ok := byLang[lang]
	if !ok {
		return "", domain.Invalid("lang", "unsupported language %q", lang)
	}
	return name, nil
}

// Children lists the tables of a shard that hang off a verb id, deepest first,
// so deleting in this order never leaves orphans behind.
func (s *ShardTables) Children() []string {
	var out []string
	for _, t := range domain.Tenses() {
		for _, lang := range domain.Languages() {
			out = append(out, s.SentenceTranslations[t][lang])
		}
	}
	for _, t := range domain.Tenses() {
		out = append(out, s.Sentences[t], s.Conjugations[t])
	}
	for _, lang := range domain.Languages() {
		out = append(out, s.Translations[lang])
	}
	return out
}

// All enumerates every sharded table, verbs tables first.
func (c *Collections) All() []string {
	var out []string
	for _, l := range c.letters {
		out = append(out, c.shards[l].Verbs)
	}
	for _, l := range c.letters {
		out = append(out, c.shards[l].Children()...)
	}
	return out
}
