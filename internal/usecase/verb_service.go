package usecase

import (
	"context"
	"fmt"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/pagination"
)

// maxPage keeps page*perPage far away from int overflow.
const maxPage = 1 << 20

// Paged is one page of items together with its metadata.
type Paged[T any] struct {
	Items []T             `json:"items"`
	Page  pagination.Page `json:"pagination"`
}

// paginate fetches the requested page and, when it lies past the end,
// fetches the last page instead.
func paginate[T any](number, perPage int, limits pagination.Limits, fetch func(offset, limit int) ([]T, int, error)) (*Paged[T], error) {
	perPage = pagination.New(1, perPage, 0, limits).PerPage
	if number < 1 {
		number = 1
	}
	if number > maxPage {
		number = maxPage
	}
	items, total, err := fetch((number-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	page := pagination.New(number, perPage, total, limits)
	if page.Number != number && total > 0 {
		items, total, err = fetch(page.Offset(), page.Limit())
		if err != nil {
			return nil, err
		}
		page = pagination.New(page.Number, perPage, total, limits)
	}
	if items == nil {
		items = []T{}
	}
	return &Paged[T]{Items: items, Page: page}, nil
}

type LetterCount struct {
	Letter  domain.Letter `json:"letter"`
	Display string        `json:"display"`
	Count   int           `json:"count"`
}

// TenseDetail is the part of a verb's detail that belongs to one tense.
type TenseDetail struct {
	Verb         domain.Verb                `json:"verb"`
	Tense        domain.Tense               `json:"tense"`
	Name         string                     `json:"name"`
	Conjugation  *domain.Conjugation        `json:"conjugation"`
	Sentences    []domain.Sentence          `json:"sentences"`
	Translations map[domain.Language]string `json:"translations"`
}

type VerbService struct {
	verbs  domain.VerbRepository
	limits pagination.Limits
}

func NewVerbService(verbs domain.VerbRepository, limits pagination.Limits) *VerbService {
	return &VerbService{verbs: verbs, limits: limits}
}

func (s *VerbService) Letters(ctx context.Context) ([]LetterCount, error) {
	counts, err := s.verbs.CountByLetter(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count verbs: %w", err)
	}
	out := make([]LetterCount, 0, len(counts))
	for _, l := range domain.Letters() {
		out = append(out, LetterCount{Letter: l, Display: l.Display(), Count: counts[l]})
	}
	return out, nil
}

func (s *VerbService) Index(ctx context.Context, page, perPage int) (*Paged[domain.Verb], error) {
	return paginate(page, perPage, s.limits, func(offset, limit int) ([]domain.Verb, int, error) {
		return s.verbs.ListAll(ctx, offset, limit)
	})
}

func (s *VerbService) ByLetter(ctx context.Context, letter string, page, perPage int) (*Paged[domain.Verb], error) {
	l, err := domain.ParseLetter(letter)
	if err != nil {
		return nil, err
	}
	return paginate(page, perPage, s.limits, func(offset, limit int) ([]domain.Verb, int, error) {
		total, err := s.verbs.Count(ctx, l)
		if err != nil {
			return nil, 0, err
		}
		verbs, err := s.verbs.List(ctx, l, offset, limit)
		return verbs, total, err
	})
}

func (s *VerbService) Search(ctx context.Context, query string, page, perPage int) (*Paged[domain.Verb], error) {
	return paginate(page, perPage, s.limits, func(offset, limit int) ([]domain.Verb, int, error) {
		return s.verbs.Search(ctx, query, offset, limit)
	})
}

func (s *VerbService) ref(ctx context.Context, letter, slug string) (domain.VerbRef, error) {
	l, err := domain.ParseLetter(letter)
	if err != nil {
		return domain.VerbRef{}, err
	}
	v, err := s.verbs.Get(ctx, l, slug)
	if err != nil {
		return domain.VerbRef{}, err
	}
	return v.Ref(), nil
}

func (s *VerbService) Show(ctx context.Context, letter, slug, langs string) (*domain.VerbDetail, error) {
	l, err := domain.ParseLetter(letter)
	if err != nil {
		return nil, err
	}
	languages, err := domain.ParseLanguages(langs)
	if err != nil {
		return nil, err
	}
	return s.verbs.Detail(ctx, l, slug, languages)
}

func (s *VerbService) Tense(ctx context.Context, letter, slug, tense, langs string) (*TenseDetail, error) {
	t, err := domain.ParseTense(tense)
	if err != nil {
		return nil, err
	}
	d, err := s.Show(ctx, letter, slug, langs)
	if err != nil {
		return nil, err
	}
	out := &TenseDetail{
		Verb:         d.Verb,
		Tense:        t,
		Name:         t.Name(),
		Sentences:    d.Sentences[t],
		Translations: d.Translations,
	}
	if out.Sentences == nil {
		out.Sentences = []domain.Sentence{}
	}
	for i := range d.Conjugations {
		if d.Conjugations[i].Tense == t {
			out.Conjugation = &d.Conjugations[i]
		}
	}
	return out, nil
}

func (s *VerbService) Create(ctx context.Context, in domain.VerbInput) (*domain.Verb, error) {
	v, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	return s.verbs.Create(ctx, v)
}

// Update replaces the verb's fields. A new infinitive with another initial moves the verb to that letter.
func (s *VerbService) Update(ctx context.Context, letter, slug string, in domain.VerbInput) (*domain.Verb, error) {
	l, err := domain.ParseLetter(letter)
	if err != nil {
		return nil, err
	}
	v, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	return s.verbs.Update(ctx, l, slug, v)
}

func (s *VerbService) Delete(ctx context.Context, letter, slug string) error {
	l, err := domain.ParseLetter(letter)
	if err != nil {
		return err
	}
	return s.verbs.Delete(ctx, l, slug)
}

func (s *VerbService) SetConjugation(ctx context.Context, letter, slug, tense string, c domain.Conjugation) (*domain.Conjugation, error) {
	t, err := domain.ParseTense(tense)
	if err != nil {
		return nil, err
	}
	c.Tense = t
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c = c.Clean()
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return nil, err
	}
	if err := s.verbs.UpsertConjugation(ctx, ref, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *VerbService) AddSentence(ctx context.Context, letter, slug, tense string, in domain.SentenceInput) (*domain.Sentence, error) {
	t, err := domain.ParseTense(tense)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return nil, err
	}
	return s.verbs.AddSentence(ctx, ref, t, in)
}

func (s *VerbService) DeleteSentence(ctx context.Context, letter, slug, tense string, sentenceID int64) error {
	t, err := domain.ParseTense(tense)
	if err != nil {
		return err
	}
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return err
	}
	return s.verbs.DeleteSentence(ctx, ref, t, sentenceID)
}

func (s *VerbService) SetTranslation(ctx context.Context, letter, slug, lang, text string) (*domain.Translation, error) {
	l, err := domain.ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	t := domain.Translation{Language: l, Text: domain.CleanText(text)}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return nil, err
	}
	if err := s.verbs.UpsertTranslation(ctx, ref, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *VerbService) SetSentenceTranslation(ctx context.Context, letter, slug, tense string, sentenceID int64, lang, text string) (*domain.Translation, error) {
	tn, err := domain.ParseTense(tense)
	if err != nil {
		return nil, err
	}
	l, err := domain.ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	t := domain.Translation{Language: l, Text: domain.CleanText(text)}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return nil, err
	}
	if err := s.verbs.UpsertSentenceTranslation(ctx, ref, tn, sentenceID, t); err != nil {
		return nil, err
	}
	return &t, nil
}
