package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))
}

type fixture struct {
	db    *infrastructure.DB
	verbs *infrastructure.VerbRepository
	im    *Importer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := infrastructure.Open(ctx, infrastructure.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c := infrastructure.NewCollections()
	require.NoError(t, db.Migrate(ctx, c))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{db: db, verbs: infrastructure.NewVerbRepository(db, c), im: NewImporter(db, c, logger)}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

var seedFiles = map[string]string{
	"verbs/verbs_a.json": `[
		{"infinitive": "achten", "preposition": "auf", "case": "akkusativ"},
		{"infinitive": "sich ärgern", "preposition": "über", "case": "akkusativ"},
		{"infinitive": "", "preposition": "auf", "case": "akkusativ"}
	]`,

	"verbs/verbs_ae.json": `[{"infinitive": "sich ärgern", "preposition": "über", "case": "akkusativ"}]`,
	"verbs/verbs_w.json":  `[{"infinitive": "warten", "preposition": "auf", "case": "akkusativ", "auxiliary": "haben"}]`,

	"translations/translations_a_en.json": `[
		{"infinitive": "achten", "preposition": "auf", "text": "to pay attention to"},
		{"infinitive": "abhängen", "preposition": "von", "text": "to depend on"}
	]`,

	"translations/translations_w_ru.json": `[{"infinitive": "warten", "preposition": "auf", "text": "ждать"}]`,

	"conjugations/conjugations_w_praesens.json": `[{
		"infinitive": "warten", "preposition": "auf",
		"ich": "warte", "du": "wartest", "er": "wartet", "wir": "warten", "ihr": "wartet", "sie": "warten"
	}]`,

	"sentences/sentences_w_perfekt.json": `[{
		"infinitive": "warten", "preposition": "auf",
		"sentences": [
			{"text": "Ich habe auf dich gewartet.", "translations": {"en": "I waited for you."}},
			{"text": "Wir haben lange auf den Bus gewartet."}
		]
	}]`,

	"README.md": "not a seed file",
}

func TestInVerbOrder(t *testing.T) {
	records := []translationRecord{
		{verbKey: verbKey{Infinitive: "warten", Preposition: "auf"}, Text: "first"},
		{verbKey: verbKey{Infinitive: "sich ärgern", Preposition: "über"}},
		{verbKey: verbKey{Infinitive: "achten", Preposition: "auf"}},
		{verbKey: verbKey{Infinitive: "Warten", Preposition: "auf"}, Text: "second"},
	}
	key := func(r translationRecord) verbKey { return r.verbKey }

	sorted := inVerbOrder(records, key)
	var slugs []string
	for _, r := range sorted {
		slugs = append(slugs, domain.Slugify(r.Infinitive, r.Preposition))
	}
	assert.Equal(t, []string{"achten-auf", "sich-aergern-ueber", "warten-auf", "warten-auf"}, slugs)
	assert.Equal(t, "first", sorted[2].Text, "records of one verb keep their file order")
	assert.Equal(t, "warten", records[0].Infinitive, "input is left untouched")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path    string
		want    File
		ok      bool
		wantErr bool
	}{
		{path: "d/verbs_a.json", want: File{Kind: KindVerbs, Letter: "a"}, ok: true},
		{path: "verbs_ue.json", want: File{Kind: KindVerbs, Letter: "ue"}, ok: true},
		{path: "translations_oe_uk.json", want: File{Kind: KindTranslations, Letter: "oe", Language: domain.LanguageUkrainian}, ok: true},
		{path: "conjugations_b_futur2.json", want: File{Kind: KindConjugations, Letter: "b", Tense: domain.TenseFutur2}, ok: true},
		{path: "sentences_z_praeteritum.json", want: File{Kind: KindSentences, Letter: "z", Tense: domain.TensePraeteritum}, ok: true},
		{path: "translations_a_de.json", ok: true, wantErr: true},
		{path: "sentences_a_aorist.json", ok: true, wantErr: true},
		{path: "verbs_qq.json", ok: true, wantErr: true},
		{path: "verbs_a.yaml"},
		{path: "notes.json"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok, err := Classify(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				assert.ErrorContains(t, err, tt.path)
				return
			}
			require.NoError(t, err)
			if !ok {
				return
			}
			tt.want.Path = tt.path
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := writeFiles(t, seedFiles)

	report, err := f.im.Run(ctx, dir, Options{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, map[Kind]int{KindVerbs: 3, KindTranslations: 2, KindConjugations: 1, KindSentences: 1}, report.Files)
	// skipped: sich ärgern in verbs_a, the empty infinitive and abhängen without a verb
	assert.Equal(t, 3, report.Skipped)
	assert.Equal(t, 7, report.Inserted)
	assert.Equal(t, 3, report.Total)

	counts, err := f.verbs.CountByLetter(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["a"])
	assert.Equal(t, 1, counts["ae"])
	assert.Equal(t, 1, counts["w"])

	detail, err := f.verbs.Detail(ctx, "w", "warten-auf", domain.Languages())
	require.NoError(t, err)
	assert.Equal(t, "ждать", detail.Translations[domain.LanguageRussian])
	require.Len(t, detail.Conjugations, 1)
	assert.Equal(t, "wartest", detail.Conjugations[0].Du)
	require.Len(t, detail.Sentences[domain.TensePerfekt], 2)
	assert.Equal(t, "I waited for you.", detail.Sentences[domain.TensePerfekt][0].Translations[domain.LanguageEnglish])
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := writeFiles(t, seedFiles)

	_, err := f.im.Run(ctx, dir, Options{})
	require.NoError(t, err)
	_, err = f.im.Run(ctx, dir, Options{Workers: 1})
	require.NoError(t, err)

	total, err := f.verbs.Count(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	detail, err := f.verbs.Detail(ctx, "w", "warten-auf", domain.Languages())
	require.NoError(t, err)
	assert.Len(t, detail.Sentences[domain.TensePerfekt], 2, "sentences are replaced, not appended")
}

func TestRunDryRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := writeFiles(t, seedFiles)

	report, err := f.im.Run(ctx, dir, Options{DryRun: true})
	require.NoError(t, err)
	// without stored verbs every well-formed record passes
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 8, report.Inserted)
	assert.Zero(t, report.Total)

	_, total, err := f.verbs.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRunDrop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.verbs.Create(ctx, domain.Verb{Letter: "z", Slug: "zweifeln-an", Infinitive: "zweifeln", Preposition: "an", Case: domain.CaseDativ, Auxiliary: domain.AuxiliaryHaben})
	require.NoError(t, err)

	dir := writeFiles(t, map[string]string{"verbs_w.json": seedFiles["verbs/verbs_w.json"]})
	_, err = f.im.Run(ctx, dir, Options{Drop: true})
	require.NoError(t, err)

	_, total, err := f.verbs.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	_, err = f.verbs.Get(ctx, "z", "zweifeln-an")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunMalformedFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dir := writeFiles(t, map[string]string{
		"verbs_w.json":                 seedFiles["verbs/verbs_w.json"],
		"translations_w_en.json":       `{"infinitive": "warten"`,
		"conjugations_w_praesens.json": `[]`,
	})

	_, err := f.im.Run(ctx, dir, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translations_w_en.json")

	conj, err := f.verbs.Detail(ctx, "w", "warten-auf", nil)
	require.NoError(t, err)
	assert.Empty(t, conj.Conjugations, "later phases do not run after a failure")
}

func TestRunMissingDir(t *testing.T) {
	f := newFixture(t)
	_, err := f.im.Run(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}
