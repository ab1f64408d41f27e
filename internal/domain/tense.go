package domain

import "strings"

type Tense string

const (
	TensePraesens        Tense = "praesens"
	TensePraeteritum     Tense = "praeteritum"
	TensePerfekt         Tense = "perfekt"
	TensePlusquamperfekt Tense = "plusquamperfekt"
	TenseFutur1          Tense = "futur1"
	TenseFutur2          Tense = "futur2"
)

var tenses = []Tense{
	TensePraesens,
	TensePraeteritum,
	TensePerfekt,
	TensePlusquamperfekt,
	TenseFutur1,
	TenseFutur2,
}

var tenseNames = map[Tense]string{
	TensePraesens:        "Präsens",
	TensePraeteritum:     "Präteritum",
	TensePerfekt:         "Perfekt",
	TensePlusquamperfekt: "Plusquamperfekt",
	TenseFutur1:          "Futur I",
	TenseFutur2:          "Futur II",
}

func Tenses() []Tense {
	out := make([]Tense, len(tenses))
	copy(out, tenses)
	return out
}

func (t Tense) Valid() bool {
	_, ok := tenseNames[t]
	return ok
}

func (t Tense) Name() string { return tenseNames[t] }

func ParseTense(s string) (Tense, error) {
	t := Tense(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", Invalid("tense", "unknown tense %q", s)
	}
	return t, nil
}

// Case is the grammatical case the preposition governs.
type Case string

const (
	CaseNone      Case = ""
	CaseAkkusativ Case = "akkusativ"
	CaseDativ     Case = "dativ"
	CaseGenitiv   Case = "genitiv"
)

func ParseCase(s string) (Case, error) {
	switch c := Case(Fold(s)); c {
	case CaseNone, CaseAkkusativ, CaseDativ, CaseGenitiv:
		return c, nil
	}
	return "", Invalid("case", "unknown case %q", s)
}

type Auxiliary string

const (
	AuxiliaryHaben Auxiliary = "haben"
	AuxiliarySein  Auxiliary = "sein"
)

func ParseAuxiliary(s string) (Auxiliary, error) {
	switch a := Auxiliary(Fold(s)); a {
	case "":
		return AuxiliaryHaben, nil
	case AuxiliaryHaben, AuxiliarySein:
		return a, nil
	}
	return "", Invalid("auxiliary", "must be haben or sein, got %q", s)
}
