package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		infinitive, preposition, want string
	}{
		{"nachdenken", "über", "nachdenken-ueber"},
		{"sich erinnern", "an", "sich-erinnern-an"},
		{"Abschied nehmen", "von", "abschied-nehmen-von"},
		{"sich beschäftigen", "mit", "sich-beschaeftigen-mit"},
		{"grüßen", "", "gruessen"},
		{"  ", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.infinitive, tt.preposition), tt.infinitive)
	}
}

func TestFolding(t *testing.T) {
	assert.Equal(t, "aerger", Fold("Ärger"))
	assert.Equal(t, "sich aergern", SearchKey("  Sich   ÄRGERN "))
	assert.Equal(t, "Ich habe gewartet", CleanText("  Ich  habe\tgewartet "))
}

func TestLetterOf(t *testing.T) {
	tests := []struct {
		infinitive string
		want       Letter
		wantErr    bool
	}{
		{infinitive: "achten", want: "a"},
		{infinitive: "sich ärgern", want: "ae"},
		{infinitive: "Überlegen", want: "ue"},
		{infinitive: "sich", want: "s"},
		{infinitive: "  ", wantErr: true},
		{infinitive: "1x", wantErr: true},
	}
	for _, tt := range tests {
		got, err := LetterOf(tt.infinitive)
		if tt.wantErr {
			assert.True(t, IsValidation(err), tt.infinitive)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.infinitive)
	}
}

func TestParseLetter(t *testing.T) {
	for in, want := range map[string]Letter{"Ä": "ae", "ae": "ae", "OE": "oe", "k": "k"} {
		got, err := ParseLetter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"ß", "", "xy"} {
		_, err := ParseLetter(in)
		assert.Error(t, err, in)
	}
}

func TestLetters(t *testing.T) {
	all := Letters()
	require.Len(t, all, 29)
	assert.Equal(t, Letter("a"), all[0])
	assert.Equal(t, Letter("ae"), all[1])
	assert.Equal(t, Letter("z"), all[28])
	assert.Equal(t, "Ü", Letter("ue").Display())
	assert.Equal(t, "B", Letter("b").Display())

	all[0] = "x"
	assert.Equal(t, Letter("a"), Letters()[0], "callers get a copy")
}

func TestParseLanguages(t *testing.T) {
	langs, err := ParseLanguages("en, RU,english")
	require.NoError(t, err)
	assert.Equal(t, []Language{LanguageEnglish, LanguageRussian}, langs)

	langs, err = ParseLanguages("")
	require.NoError(t, err)
	assert.Len(t, langs, 4)

	_, err = ParseLanguages("en,de")
	assert.True(t, IsValidation(err))
}

func TestParseTense(t *testing.T) {
	tense, err := ParseTense(" Perfekt")
	require.NoError(t, err)
	assert.Equal(t, TensePerfekt, tense)
	assert.Equal(t, "Perfekt", tense.Name())

	_, err = ParseTense("aorist")
	assert.True(t, IsValidation(err))
}
