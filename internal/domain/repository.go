package domain

import (
	"context"
	"time"
)

type VerbRepository interface {
	Count(ctx context.Context, letter Letter) (int, error)
	CountAll(ctx context.Context) (int, error)
	CountByLetter(ctx context.Context) (map[Letter]int, error)
	List(ctx context.Context, letter Letter, offset, limit int) ([]Verb, error)
	// ListAll and Search read across every letter shard and also return the total.
	ListAll(ctx context.Context, offset, limit int) ([]Verb, int, error)
	Search(ctx context.Context, query string, offset, limit int) ([]Verb, int, error)
	Get(ctx context.Context, letter Letter, slug string) (*Verb, error)
	GetByRef(ctx context.Context, ref VerbRef) (*Verb, error)
	Detail(ctx context.Context, letter Letter, slug string, langs []Language) (*VerbDetail, error)
	Create(ctx context.Context, verb Verb) (*Verb, error)
	Update(ctx context.Context, letter Letter, slug string, verb Verb) (*Verb, error)
	Delete(ctx context.Context, letter Letter, slug string) error
	UpsertConjugation(ctx context.Context, ref VerbRef, conjugation Conjugation) error
	AddSentence(ctx context.Context, ref VerbRef, tense Tense, sentence SentenceInput) (*Sentence, error)
	DeleteSentence(ctx context.Context, ref VerbRef, tense Tense, sentenceID int64) error
	UpsertTranslation(ctx context.Context, ref VerbRef, translation Translation) error
	UpsertSentenceTranslation(ctx context.Context, ref VerbRef, tense Tense, sentenceID int64, translation Translation) error
}

type AuthRepository interface {
	SignUp(ctx context.Context, creds AuthCredentials, role Role) (int64, error)
	SignIn(ctx context.Context, username, password string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByName(ctx context.Context, username string) (*User, error)
	DoesUsernameExist(ctx context.Context, username string) (bool, error)
	DoesUserIDExist(ctx context.Context, id int64) (bool, error)
	UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error
	RefreshTokenMatches(ctx context.Context, userID int64, refreshToken string) (bool, error)
	SetRole(ctx context.Context, userID int64, role Role) error
	RemoveUser(ctx context.Context, userID int64) error
}

type FavoritesRepository interface {
	Add(ctx context.Context, userID int64, ref VerbRef) error
	Remove(ctx context.Context, userID int64, ref VerbRef) error
	Contains(ctx context.Context, userID int64, ref VerbRef) (bool, error)
	Count(ctx context.Context, userID int64) (int, error)
	List(ctx context.Context, userID int64, offset, limit int) ([]Favorite, error)
}

type ListRepository interface {
	Create(ctx context.Context, userID int64, name string) (*VerbList, error)
	Rename(ctx context.Context, userID, listID int64, name string) (*VerbList, error)
	Delete(ctx context.Context, userID, listID int64) error
	Get(ctx context.Context, userID, listID int64) (*VerbList, error)
	ListByUser(ctx context.Context, userID int64) ([]VerbList, error)
	Items(ctx context.Context, userID, listID int64) ([]VerbListItem, error)
	AddVerb(ctx context.Context, userID, listID int64, ref VerbRef) (*VerbListItem, error)
	RemoveVerb(ctx context.Context, userID, listID int64, ref VerbRef) error
	DueItems(ctx context.Context, userID, listID int64, now time.Time) ([]VerbListItem, error)
	SetDue(ctx context.Context, userID, listID, itemID int64, due time.Time) (*VerbListItem, error)
}
