package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Verb struct {
	ID          int64     `json:"id"`
	Letter      Letter    `json:"letter"`
	Slug        string    `json:"slug"`
	Infinitive  string    `json:"infinitive"`
	Preposition string    `json:"preposition"`
	Case        Case      `json:"case"`
	Auxiliary   Auxiliary `json:"auxiliary"`
	Irregular   bool      `json:"irregular"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v Verb) Ref() VerbRef { return VerbRef{Letter: v.Letter, ID: v.ID} }

// VerbRef addresses a verb across letter shards.
type VerbRef struct {
	Letter Letter `json:"letter"`
	ID     int64  `json:"id"`
}

type VerbInput struct {
	Infinitive  string `json:"infinitive"`
	Preposition string `json:"preposition"`
	Case        string `json:"case"`
	Auxiliary   string `json:"auxiliary"`
	Irregular   bool   `json:"irregular"`
	Description string `json:"description"`
}

const (
	maxInfinitiveLen  = 64
	maxPrepositionLen = 32
	maxDescriptionLen = 2000
)

func (in VerbInput) Validate() error {
	_, err := in.Normalize()
	return err
}

// Normalize validates the input and returns the verb it describes, without id or timestamps.
func (in VerbInput) Normalize() (Verb, error) {
	infinitive := CleanText(in.Infinitive)
	preposition := CleanText(in.Preposition)
	if infinitive == "" {
		return Verb{}, Invalid("infinitive", "must not be empty")
	}
	if utf8.RuneCountInString(infinitive) > maxInfinitiveLen {
		return Verb{}, Invalid("infinitive", "must be at most %d characters", maxInfinitiveLen)
	}
	if utf8.RuneCountInString(preposition) > maxPrepositionLen {
		return Verb{}, Invalid("preposition", "must be at most %d characters", maxPrepositionLen)
	}
	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return Verb{}, Invalid("description", "must be at most %d characters", maxDescriptionLen)
	}
	letter, err := LetterOf(infinitive)
	if err != nil {
		return Verb{}, err
	}
	c, err := ParseCase(in.Case)
	if err != nil {
		return Verb{}, err
	}
	if preposition != "" && c == CaseNone {
		return Verb{}, Invalid("case", "required when a preposition is given")
	}
	aux, err := ParseAuxiliary(in.Auxiliary)
	if err != nil {
		return Verb{}, err
	}
	slug := Slugify(infinitive, preposition)
	if slug == "" {
		return Verb{}, Invalid("infinitive", "must contain letters")
	}
	return Verb{
		Letter:      letter,
		Slug:        slug,
		Infinitive:  infinitive,
		Preposition: preposition,
		Case:        c,
		Auxiliary:   aux,
		Irregular:   in.Irregular,
		Description: description,
	}, nil
}

// Conjugation holds the six person forms of a verb in one tense.
type Conjugation struct {
	Tense Tense  `json:"tense"`
	Ich   string `json:"ich"`
	Du    string `json:"du"`
	Er    string `json:"er"`
	Wir   string `json:"wir"`
	Ihr   string `json:"ihr"`
	Sie   string `json:"sie"`
}

func (c Conjugation) Validate() error {
	if !c.Tense.Valid() {
		return Invalid("tense", "unknown tense %q", c.Tense)
	}
	forms := map[string]string{"ich": c.Ich, "du": c.Du, "er": c.Er, "wir": c.Wir, "ihr": c.Ihr, "sie": c.Sie}
	for _, person := range []string{"ich", "du", "er", "wir", "ihr", "sie"} {
		if CleanText(forms[person]) == "" {
			return Invalid(person, "conjugated form must not be empty")
		}
	}
	return nil
}

func (c Conjugation) Clean() Conjugation {
	return Conjugation{
		Tense: c.Tense,
		Ich:   CleanText(c.Ich),
		Du:    CleanText(c.Du),
		Er:    CleanText(c.Er),
		Wir:   CleanText(c.Wir),
		Ihr:   CleanText(c.Ihr),
		Sie:   CleanText(c.Sie),
	}
}

// Sentence is an example sentence for a verb in a tense.
type Sentence struct {
	ID           int64               `json:"id"`
	Tense        Tense               `json:"tense"`
	Position     int                 `json:"position"`
	Text         string              `json:"text"`
	Translations map[Language]string `json:"translations,omitempty"`
}

type SentenceInput struct {
	Text         string              `json:"text"`
	Translations map[Language]string `json:"translations"`
}

const maxSentenceLen = 500

func (in SentenceInput) Validate() error {
	text := CleanText(in.Text)
	if text == "" {
		return Invalid("text", "must not be empty")
	}
	if utf8.RuneCountInString(text) > maxSentenceLen {
		return Invalid("text", "must be at most %d characters", maxSentenceLen)
	}
	for lang := range in.Translations {
		if !lang.Valid() {
			return Invalid("translations", "unsupported language %q", lang)
		}
	}
	return nil
}

// VerbDetail is a verb with everything stored for it in its shard.
type VerbDetail struct {
	Verb
	Translations map[Language]string  `json:"translations"`
	Conjugations []Conjugation        `json:"conjugations"`
	Sentences    map[Tense][]Sentence `json:"sentences"`
	// Favorited is only set for authenticated readers.
	Favorited *bool `json:"favorited,omitempty"`
}
