package seed

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

// Kind is the type of records a seed file holds. Kinds are imported in the order of Phases.
type Kind string

const (
	KindVerbs        Kind = "verbs"
	KindTranslations Kind = "translations"
	KindConjugations Kind = "conjugations"
	KindSentences    Kind = "sentences"
)

// Phases lists the kinds in import order; every record refers to verbs of an earlier phase.
var Phases = []Kind{KindVerbs, KindTranslations, KindConjugations, KindSentences}

var (
	verbsFile        = regexp.MustCompile(`^verbs_([a-z]{1,2})\.json$`)
	translationsFile = regexp.MustCompile(`^translations_([a-z]{1,2})_([a-z]+)\.json$`)
	conjugationsFile = regexp.MustCompile(`^conjugations_([a-z]{1,2})_([a-z0-9]+)\.json$`)
	sentencesFile    = regexp.MustCompile(`^sentences_([a-z]{1,2})_([a-z0-9]+)\.json$`)
)

// File is a seed file together with the shard its name points at.
type File struct {
	Path     string
	Kind     Kind
	Letter   domain.Letter
	Tense    domain.Tense
	Language domain.Language
}

// Classify reads the kind, letter and tense or language from a file name.
// ok is false for files that are not seed files at all.
func Classify(path string) (f File, ok bool, err error) {
	name := filepath.Base(path)
	f.Path = path

	var letter string
	switch {
	case verbsFile.MatchString(name):
		m := verbsFile.FindStringSubmatch(name)
		f.Kind, letter = KindVerbs, m[1]
	case translationsFile.MatchString(name):
		m := translationsFile.FindStringSubmatch(name)
		f.Kind, letter = KindTranslations, m[1]
		if f.Language, err = domain.ParseLanguage(m[2]); err != nil {
			return f, true, fmt.Errorf("%s: %w", path, err)
		}
	case conjugationsFile.MatchString(name), sentencesFile.MatchString(name):
		m := conjugationsFile.FindStringSubmatch(name)
		f.Kind = KindConjugations
		if m == nil {
			m = sentencesFile.FindStringSubmatch(name)
			f.Kind = KindSentences
		}
		letter = m[1]
		if f.Tense, err = domain.ParseTense(m[2]); err != nil {
			return f, true, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return f, false, nil
	}
	if f.Letter, err = domain.ParseLetter(letter); err != nil {
		return f, true, fmt.Errorf("%s: %w", path, err)
	}
	return f, true, nil
}

// Scan walks dir and groups the seed files it finds by kind, sorted by path.
// skipped receives every file that is not a seed file.
func Scan(dir string, skipped func(path string)) (map[Kind][]File, error) {
	out := make(map[Kind][]File)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, ok, err := Classify(path)
		if err != nil {
			return err
		}
		if !ok {
			if skipped != nil {
				skipped(path)
			}
			return nil
		}
		out[f.Kind] = append(out[f.Kind], f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	for _, files := range out {
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	}
	return out, nil
}
