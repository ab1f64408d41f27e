package usecase

import (
	"context"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/pagination"
)

type FavoritesService struct {
	favorites domain.FavoritesRepository
	verbs     domain.VerbRepository
	limits    pagination.Limits
}

func NewFavoritesService(favorites domain.FavoritesRepository, verbs domain.VerbRepository, limits pagination.Limits) *FavoritesService {
	return &FavoritesService{favorites: favorites, verbs: verbs, limits: limits}
}

func (s *FavoritesService) ref(ctx context.Context, letter, slug string) (domain.VerbRef, error) {
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

func (s *FavoritesService) List(ctx context.Context, userID int64, page, perPage int) (*Paged[domain.Favorite], error) {
	return paginate(page, perPage, s.limits, func(offset, limit int) ([]domain.Favorite, int, error) {
		total, err := s.favorites.Count(ctx, userID)
		if err != nil {
			return nil, 0, err
		}
		favorites, err := s.favorites.List(ctx, userID, offset, limit)
		return favorites, total, err
	})
}

func (s *FavoritesService) Add(ctx context.Context, userID int64, letter, slug string) error {
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return err
	}
	return s.favorites.Add(ctx, userID, ref)
}

func (s *FavoritesService) Contains(ctx context.Context, userID int64, ref domain.VerbRef) (bool, error) {
	return s.favorites.Contains(ctx, userID, ref)
}

func (s *FavoritesService) Remove(ctx context.Context, userID int64, letter, slug string) error {
	ref, err := s.ref(ctx, letter, slug)
	if err != nil {
		return err
	}
	return s.favorites.Remove(ctx, userID, ref)
}
