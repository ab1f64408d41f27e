package domain

import (
	"strings"
)

// Letter is the shard key of a verb: the folded initial of its infinitive.
type Letter string

var letters = func() []Letter {
	out := make([]Letter, 0, 29)
	for r := 'a'; r <= 'z'; r++ {
		out = append(out, Letter(string(r)))
		switch r {
		case 'a', 'o', 'u':
			out = append(out, Letter(string(r)+"e"))
		}
	}
	return out
}()

var umlautLetters = map[string]Letter{"ä": "ae", "ö": "oe", "ü": "ue"}

// Letters returns every shard key in alphabetical order, umlauts right after their vowel.
func Letters() []Letter {
	out := make([]Letter, len(letters))
	copy(out, letters)
	return out
}

func (l Letter) Valid() bool {
	for _, known := range letters {
		if l == known {
			return true
		}
	}
	return false
}

// Display returns the letter as a reader would write it.
func (l Letter) Display() string {
	for u, key := range umlautLetters {
		if key == l {
			return strings.ToUpper(u)
		}
	}
	return strings.ToUpper(string(l))
}

// ParseLetter accepts a shard key ("a", "ae") or the letter itself ("Ä").
func ParseLetter(s string) (Letter, error) {
	s = strings.TrimSpace(germanLower.String(s))
	if l, ok := umlautLetters[s]; ok {
		return l, nil
	}
	l := Letter(s)
	if !l.Valid() {
		return "", Invalid("letter", "unknown letter %q", s)
	}
	return l, nil
}

// LetterOf returns the shard of an infinitive, ignoring a leading reflexive "sich".
func LetterOf(infinitive string) (Letter, error) {
	s := strings.TrimSpace(germanLower.String(CleanText(infinitive)))
	s = strings.TrimPrefix(s, "sich ")
	for _, r := range s {
		if l, ok := umlautLetters[string(r)]; ok {
			return l, nil
		}
		l := Letter(string(r))
		if !l.Valid() {
			return "", Invalid("infinitive", "must start with a letter, got %q", string(r))
		}
		return l, nil
	}
	return "", Invalid("infinitive", "must not be empty")
}
