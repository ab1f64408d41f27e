package domain

import "unicode/utf8"

// Translation is the meaning of a verb in one language.
type Translation struct {
	Language Language `json:"language"`
	Text     string   `json:"text"`
}

const maxTranslationLen = 500

func (t Translation) Validate() error {
	if !t.Language.Valid() {
		return Invalid("lang", "unsupported language %q", t.Language)
	}
	text := CleanText(t.Text)
	if text == "" {
		return Invalid("text", "must not be empty")
	}
	if utf8.RuneCountInString(text) > maxTranslationLen {
		return Invalid("text", "must be at most %d characters", maxTranslationLen)
	}
	return nil
}
