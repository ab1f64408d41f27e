package domain

import "strings"

// Language is a translation target identified by its ISO 639-1 code.
type Language string

const (
	LanguageEnglish   Language = "en"
	LanguageRussian   Language = "ru"
	LanguageUkrainian Language = "uk"
	LanguagePolish    Language = "pl"
)

var languages = []Language{LanguageEnglish, LanguageRussian, LanguageUkrainian, LanguagePolish}

var SupportedLanguages = map[Language]string{
	LanguageEnglish:   "english",
	LanguageRussian:   "russian",
	LanguageUkrainian: "ukrainian",
	LanguagePolish:    "polish",
}

func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

func (l Language) Valid() bool {
	_, ok := SupportedLanguages[l]
	return ok
}

func (l Language) Name() string { return SupportedLanguages[l] }

// ParseLanguage accepts either the code ("en") or the name ("english").
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if l := Language(s); l.Valid() {
		return l, nil
	}
	for code, name := range SupportedLanguages {
		if name == s {
			return code, nil
		}
	}
	return "", Invalid("lang", "unsupported language %q", s)
}

// ParseLanguages parses a comma separated list; empty input selects every language.
func ParseLanguages(s string) ([]Language, error) {
	if strings.TrimSpace(s) == "" {
		return Languages(), nil
	}
	var out []Language
	seen := make(map[Language]struct{})
	for _, part := range strings.Split(s, ",") {
		l, err := ParseLanguage(part)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}
