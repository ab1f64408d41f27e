package infrastructure

import (
	"testing"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionNames(t *testing.T) {
	c := NewCollections()

	name, err := c.Verbs("a")
	require.NoError(t, err)
	assert.Equal(t, "de_verbs_a", name)

	name, err = c.Verbs("ue")
	require.NoError(t, err)
	assert.Equal(t, "de_verbs_ue", name)

	name, err = c.Conjugations("b", domain.TensePerfekt)
	require.NoError(t, err)
	assert.Equal(t, "de_verbs_b_perfekt_conjugations", name)

	name, err = c.Sentences("d", domain.TenseFutur1)
	require.NoError(t, err)
	assert.Equal(t, "de_verbs_d_futur1_sentences", name)

	name, err = c.SentenceTranslations("oe", domain.TensePraesens, domain.LanguageRussian)
	require.NoError(t, err)
	assert.Equal(t, "de_verbs_oe_praesens_sentences_ru", name)

	name, err = c.Translations("z", domain.LanguagePolish)
	require.NoError(t, err)
	assert.Equal(t, "de_verbs_z_translations_pl", name)
}

func TestCollectionsRejectUnknownKeys(t *testing.T) {
	c := NewCollections()

	_, err := c.Verbs("a; DROP TABLE users")
	assert.True(t, domain.IsValidation(err))

	_, err = c.Conjugations("a", "konjunktiv3")
	assert.True(t, domain.IsValidation(err))

	_, err = c.Translations("a", "xx")
	assert.True(t, domain.IsValidation(err))

	_, err = c.SentenceTranslations("a", domain.TensePraesens, "xx")
	assert.True(t, domain.IsValidation(err))
}

func TestCollectionsAll(t *testing.T) {
	c := NewCollections()
	all := c.All()

	perShard := 1 + len(domain.Languages()) + len(domain.Tenses())*(2+len(domain.Languages()))
	assert.Len(t, all, len(domain.Letters())*perShard)

	seen := make(map[string]bool)
	for _, name := range all {
		assert.False(t, seen[name], "duplicate table %s", name)
		seen[name] = true
	}
	assert.Equal(t, "de_verbs_a", all[0])
}
