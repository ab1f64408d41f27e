package infrastructure

import (
	"context"
	"testing"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerbCreateAndGet(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	created := createVerb(t, repo, "sich ärgern", "über", "akkusativ")
	assert.Equal(t, domain.Letter("ae"), created.Letter)
	assert.Equal(t, "sich-aergern-ueber", created.Slug)
	assert.NotZero(t, created.ID)

	got, err := repo.Get(ctx, "ae", "sich-aergern-ueber")
	require.NoError(t, err)
	assert.Equal(t, "sich ärgern", got.Infinitive)
	assert.Equal(t, "über", got.Preposition)
	assert.Equal(t, domain.CaseAkkusativ, got.Case)
	assert.Equal(t, domain.AuxiliaryHaben, got.Auxiliary)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.Get(ctx, "a", "sich-aergern-ueber")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	byRef, err := repo.GetByRef(ctx, domain.VerbRef{Letter: "ae", ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.Slug, byRef.Slug)
	assert.Equal(t, domain.Letter("ae"), byRef.Letter)

	_, err = repo.GetByRef(ctx, domain.VerbRef{Letter: "a", ID: created.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerbCreateConflict(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)

	createVerb(t, repo, "denken", "an", "akkusativ")
	_, err := repo.Create(context.Background(), mustVerb(t, domain.VerbInput{Infinitive: "Denken", Preposition: "an", Case: "akkusativ"}))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// the same verb with another preposition is a separate entry
	createVerb(t, repo, "denken", "über", "akkusativ")
	n, err := repo.Count(context.Background(), "d")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestVerbListOrderAndPaging(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	for _, inf := range []string{"bitten", "beginnen", "bestehen", "berichten"} {
		createVerb(t, repo, inf, "", "")
	}

	verbs, err := repo.List(ctx, "b", 0, 10)
	require.NoError(t, err)
	var names []string
	for _, v := range verbs {
		names = append(names, v.Infinitive)
	}
	assert.Equal(t, []string{"beginnen", "berichten", "bestehen", "bitten"}, names)

	verbs, err = repo.List(ctx, "b", 2, 1)
	require.NoError(t, err)
	require.Len(t, verbs, 1)
	assert.Equal(t, "bestehen", verbs[0].Infinitive)
}

func TestVerbListAllAcrossShards(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	for _, inf := range []string{"achten", "antworten", "ändern", "bitten", "zweifeln", "üben"} {
		createVerb(t, repo, inf, "", "")
	}

	all, total, err := repo.ListAll(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	var names []string
	for _, v := range all {
		names = append(names, v.Infinitive)
	}
	assert.Equal(t, []string{"achten", "antworten", "ändern", "bitten", "üben", "zweifeln"}, names)

	page, total, err := repo.ListAll(ctx, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, page, 3)
	assert.Equal(t, "antworten", page[0].Infinitive)
	assert.Equal(t, "ändern", page[1].Infinitive)
	assert.Equal(t, "bitten", page[2].Infinitive)
}

func TestVerbSearch(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	createVerb(t, repo, "sich ärgern", "über", "akkusativ")
	createVerb(t, repo, "sich freuen", "über", "akkusativ")
	createVerb(t, repo, "sich freuen", "auf", "akkusativ")
	createVerb(t, repo, "warten", "auf", "akkusativ")

	verbs, total, err := repo.Search(ctx, "ÜBER", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, verbs, 2)

	verbs, total, err = repo.Search(ctx, "ärg", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "sich ärgern", verbs[0].Infinitive)

	_, total, err = repo.Search(ctx, "100%", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = repo.Search(ctx, "   ", 0, 10)
	assert.True(t, domain.IsValidation(err))
}

func TestVerbDetail(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	v := createVerb(t, repo, "warten", "auf", "akkusativ")
	ref := v.Ref()

	require.NoError(t, repo.UpsertTranslation(ctx, ref, domain.Translation{Language: domain.LanguageEnglish, Text: "to wait for"}))
	require.NoError(t, repo.UpsertTranslation(ctx, ref, domain.Translation{Language: domain.LanguageRussian, Text: "ждать"}))
	require.NoError(t, repo.UpsertConjugation(ctx, ref, domain.Conjugation{
		Tense: domain.TensePraesens, Ich: "warte", Du: "wartest", Er: "wartet", Wir: "warten", Ihr: "wartet", Sie: "warten",
	}))
	first, err := repo.AddSentence(ctx, ref, domain.TensePraesens, domain.SentenceInput{
		Text:         "Ich warte auf den Bus.",
		Translations: map[domain.Language]string{domain.LanguageEnglish: "I am waiting for the bus."},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)
	second, err := repo.AddSentence(ctx, ref, domain.TensePraesens, domain.SentenceInput{Text: "Wir warten auf dich."})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)
	require.NoError(t, repo.UpsertSentenceTranslation(ctx, ref, domain.TensePraesens, second.ID,
		domain.Translation{Language: domain.LanguageEnglish, Text: "We are waiting for you."}))

	d, err := repo.Detail(ctx, "w", "warten-auf", []domain.Language{domain.LanguageEnglish})
	require.NoError(t, err)
	assert.Equal(t, map[domain.Language]string{domain.LanguageEnglish: "to wait for"}, d.Translations)
	require.Len(t, d.Conjugations, 1)
	assert.Equal(t, "wartest", d.Conjugations[0].Du)
	require.Len(t, d.Sentences[domain.TensePraesens], 2)
	assert.Equal(t, "I am waiting for the bus.", d.Sentences[domain.TensePraesens][0].Translations[domain.LanguageEnglish])
	assert.Equal(t, "We are waiting for you.", d.Sentences[domain.TensePraesens][1].Translations[domain.LanguageEnglish])
	assert.Empty(t, d.Sentences[domain.TensePerfekt])

	// a second upsert overwrites
	require.NoError(t, repo.UpsertConjugation(ctx, ref, domain.Conjugation{
		Tense: domain.TensePraesens, Ich: "WARTE", Du: "wartest", Er: "wartet", Wir: "warten", Ihr: "wartet", Sie: "warten",
	}))
	d, err = repo.Detail(ctx, "w", "warten-auf", nil)
	require.NoError(t, err)
	assert.Equal(t, "WARTE", d.Conjugations[0].Ich)
	assert.Empty(t, d.Translations)
}

func TestVerbChildrenRequireVerb(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	missing := domain.VerbRef{Letter: "a", ID: 42}
	err := repo.UpsertTranslation(ctx, missing, domain.Translation{Language: domain.LanguageEnglish, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.AddSentence(ctx, missing, domain.TensePraesens, domain.SentenceInput{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	v := createVerb(t, repo, "achten", "auf", "akkusativ")
	err = repo.DeleteSentence(ctx, v.Ref(), domain.TensePraesens, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = repo.UpsertSentenceTranslation(ctx, v.Ref(), domain.TensePraesens, 999, domain.Translation{Language: domain.LanguageEnglish, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplaceSentences(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	v := createVerb(t, repo, "helfen", "bei", "dativ")
	in := []domain.SentenceInput{
		{Text: "Ich helfe dir bei der Arbeit.", Translations: map[domain.Language]string{domain.LanguageEnglish: "I help you with the work."}},
		{Text: "Er hilft mir beim Umzug."},
	}
	require.NoError(t, repo.ReplaceSentences(ctx, v.Ref(), domain.TensePraesens, in))
	require.NoError(t, repo.ReplaceSentences(ctx, v.Ref(), domain.TensePraesens, in))

	d, err := repo.Detail(ctx, "h", "helfen-bei", domain.Languages())
	require.NoError(t, err)
	require.Len(t, d.Sentences[domain.TensePraesens], 2)
	assert.Equal(t, "Ich helfe dir bei der Arbeit.", d.Sentences[domain.TensePraesens][0].Text)
	assert.Equal(t, "I help you with the work.", d.Sentences[domain.TensePraesens][0].Translations[domain.LanguageEnglish])
}

func TestVerbUpdateSameLetter(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	createVerb(t, repo, "denken", "an", "akkusativ")
	createVerb(t, repo, "denken", "über", "akkusativ")

	updated, err := repo.Update(ctx, "d", "denken-an", mustVerb(t, domain.VerbInput{
		Infinitive: "denken", Preposition: "an", Case: "akkusativ", Description: "an jemanden denken",
	}))
	require.NoError(t, err)
	assert.Equal(t, "an jemanden denken", updated.Description)

	_, err = repo.Update(ctx, "d", "denken-an", mustVerb(t, domain.VerbInput{
		Infinitive: "denken", Preposition: "über", Case: "akkusativ",
	}))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestVerbUpdateMovesShard(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	favorites := NewFavoritesRepository(db, repo)
	ctx := context.Background()

	v := createVerb(t, repo, "bitten", "um", "akkusativ")
	ref := v.Ref()
	require.NoError(t, repo.UpsertTranslation(ctx, ref, domain.Translation{Language: domain.LanguageEnglish, Text: "to ask for"}))
	require.NoError(t, repo.UpsertConjugation(ctx, ref, domain.Conjugation{
		Tense: domain.TensePerfekt, Ich: "habe gebeten", Du: "hast gebeten", Er: "hat gebeten", Wir: "haben gebeten", Ihr: "habt gebeten", Sie: "haben gebeten",
	}))
	_, err := repo.AddSentence(ctx, ref, domain.TensePerfekt, domain.SentenceInput{
		Text:         "Sie hat um Hilfe gebeten.",
		Translations: map[domain.Language]string{domain.LanguageEnglish: "She asked for help."},
	})
	require.NoError(t, err)
	require.NoError(t, favorites.Add(ctx, 7, ref))

	moved, err := repo.Update(ctx, "b", "bitten-um", mustVerb(t, domain.VerbInput{
		Infinitive: "ersuchen", Preposition: "um", Case: "akkusativ",
	}))
	require.NoError(t, err)
	assert.Equal(t, domain.Letter("e"), moved.Letter)
	assert.Equal(t, v.CreatedAt.Unix(), moved.CreatedAt.Unix())

	_, err = repo.Get(ctx, "b", "bitten-um")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d, err := repo.Detail(ctx, "e", "ersuchen-um", domain.Languages())
	require.NoError(t, err)
	assert.Equal(t, "to ask for", d.Translations[domain.LanguageEnglish])
	require.Len(t, d.Conjugations, 1)
	require.Len(t, d.Sentences[domain.TensePerfekt], 1)
	assert.Equal(t, "She asked for help.", d.Sentences[domain.TensePerfekt][0].Translations[domain.LanguageEnglish])

	ok, err := favorites.Contains(ctx, 7, moved.Ref())
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.Count(ctx, "b")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestVerbDeleteCascades(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	favorites := NewFavoritesRepository(db, repo)
	lists := NewListRepository(db, repo)
	ctx := context.Background()

	v := createVerb(t, repo, "sprechen", "über", "akkusativ")
	require.NoError(t, repo.UpsertTranslation(ctx, v.Ref(), domain.Translation{Language: domain.LanguageEnglish, Text: "to talk about"}))
	_, err := repo.AddSentence(ctx, v.Ref(), domain.TensePraesens, domain.SentenceInput{Text: "Wir sprechen über das Wetter."})
	require.NoError(t, err)
	require.NoError(t, favorites.Add(ctx, 1, v.Ref()))
	list, err := lists.Create(ctx, 1, "Kommunikation")
	require.NoError(t, err)
	_, err = lists.AddVerb(ctx, 1, list.ID, v.Ref())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "s", "sprechen-ueber"))

	_, err = repo.Get(ctx, "s", "sprechen-ueber")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	n, err := favorites.Count(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
	items, err := lists.Items(ctx, 1, list.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	var left int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM de_verbs_s_translations_en").Scan(&left))
	assert.Zero(t, left)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM de_verbs_s_praesens_sentences").Scan(&left))
	assert.Zero(t, left)

	assert.ErrorIs(t, repo.Delete(ctx, "s", "sprechen-ueber"), domain.ErrNotFound)
}

func TestTruncate(t *testing.T) {
	db, c := setupTestDB(t)
	repo := NewVerbRepository(db, c)
	ctx := context.Background()

	createVerb(t, repo, "glauben", "an", "akkusativ")
	require.NoError(t, db.Migrate(ctx, c))
	require.NoError(t, db.Truncate(ctx, c))

	counts, err := repo.CountByLetter(ctx)
	require.NoError(t, err)
	for letter, n := range counts {
		assert.Zero(t, n, "letter %s", letter)
	}
	total, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}
