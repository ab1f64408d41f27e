package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

type ListDetail struct {
	domain.VerbList
	Items []domain.VerbListItem `json:"items"`
}

// ListService manages personal verb lists and their spaced practice.
type ListService struct {
	lists domain.ListRepository
	verbs domain.VerbRepository
	now   func() time.Time
	pick  func(n int) int
}

func NewListService(lists domain.ListRepository, verbs domain.VerbRepository) *ListService {
	return &ListService{lists: lists, verbs: verbs, now: time.Now, pick: rand.Intn}
}

func (s *ListService) ref(ctx context.Context, letter, slug string) (domain.VerbRef, error) {
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

func (s *ListService) Lists(ctx context.Context, userID int64) ([]domain.VerbList, error) {
	return s.lists.ListByUser(ctx, userID)
}

func (s *ListService) Create(ctx context.Context, userID int64, name string) (*domain.VerbList, error) {
	name, err := domain.NormalizeListName(name)
	if err != nil {
		return nil, err
	}
	return s.lists.Create(ctx, userID, name)
}

func (s *ListService) Rename(ctx context.Context, userID, listID int64, name string) (*domain.VerbList, error) {
	name, err := domain.NormalizeListName(name)
	if err != nil {
		return nil, err
	}
	return s.lists.Rename(ctx, userID, listID, name)
}

func (s *ListService) Delete(ctx context.Context, userID, listID int64) error {
	return s.lists.Delete(ctx, userID, listID)
}

func (s *ListService) Show(ctx context.Context, userID, listID int64) (*ListDetail, error) {
	list, err := s.lists.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	items, err := s.lists.Items(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	return &ListDetail{VerbList: *list, Items: items}, nil
}

func (s *ListService) AddVerb(ctx context.Context, userID, listID int64, letter, slug string) (*domain.VerbListItem, error) {
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return nil, err
	}
	return s.lists.AddVerb(ctx, userID, listID, ref)
}

func (s *ListService) RemoveVerb(ctx context.Context, userID, listID int64, letter, slug string) error {
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return err
	}
	return s.lists.RemoveVerb(ctx, userID, listID, ref)
}

// NextDue picks a random item that is due for practice. It returns nil when nothing is due.
func (s *ListService) NextDue(ctx context.Context, userID, listID int64) (*domain.VerbListItem, error) {
	due, err := s.lists.DueItems(ctx, userID, listID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get due items: %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}
	item := due[s.pick(len(due))]
	return &item, nil
}

// Rate reschedules a list item according to how well it was remembered.
func (s *ListService) Rate(ctx context.Context, userID, listID, itemID int64, rating domain.RatingType) (*domain.VerbListItem, error) {
	due, err := rating.NextDue(s.now())
	if err != nil {
		return nil, err
	}
	return s.lists.SetDue(ctx, userID, listID, itemID, due)
}
