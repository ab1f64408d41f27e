package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type AuthRepository struct {
	q    querier
	cost int
}

func NewAuthRepository(db *DB) *AuthRepository {
	return &AuthRepository{q: db.DB, cost: bcrypt.DefaultCost}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (ur *AuthRepository) WithCost(cost int) *AuthRepository {
	return &AuthRepository{q: ur.q, cost: cost}
}

const userColumns = `id, user_name, email, role, created_at`

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var role string
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (ur *AuthRepository) SignIn(ctx context.Context, userName string, password string) (*domain.User, error) {
	var dbPassword string
	row := ur.q.QueryRowContext(ctx, "SELECT password, "+userColumns+" FROM users WHERE user_name = $1", userName)
	var u domain.User
	var role string
	err := row.Scan(&dbPassword, &u.ID, &u.Username, &u.Email, &role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("authentication failed: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	err = bcrypt.CompareHashAndPassword([]byte(dbPassword), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", domain.ErrUnauthorized)
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (ur *AuthRepository) SignUp(ctx context.Context, creds domain.AuthCredentials, role domain.Role) (int64, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(creds.Password), ur.cost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	var userID int64
	err = inTx(ctx, ur.q, func(q querier) error {
		exists, err := (&AuthRepository{q: q}).DoesUsernameExist(ctx, creds.Username)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("username %q: %w", creds.Username, domain.ErrConflict)
		}
		err = q.QueryRowContext(ctx,
			"INSERT INTO users (user_name, email, password, role, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
			creds.Username,
			creds.Email,
			string(hashedPassword),
			string(role),
			time.Now().UTC(),
		).Scan(&userID)
		if isUniqueViolation(err) {
			return fmt.Errorf("username %q: %w", creds.Username, domain.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	return userID, err
}

func (ur *AuthRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(ur.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (ur *AuthRepository) GetUserByName(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(ur.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE user_name = $1", username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (ur *AuthRepository) UpdateRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	result, err := ur.q.ExecContext(ctx, "UPDATE users SET refresh_token = $1 WHERE id = $2", refreshToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no rows updated, user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func (ur *AuthRepository) RefreshTokenMatches(ctx context.Context, userID int64, refreshToken string) (bool, error) {
	var stored string
	err := ur.q.QueryRowContext(ctx, "SELECT refresh_token FROM users WHERE id = $1", userID).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not read refresh token: %w", err)
	}
	return stored != "" && stored == refreshToken, nil
}

func (ur *AuthRepository) DoesUserIDExist(ctx context.Context, userID int64) (bool, error) {
	var id int64
	err := ur.q.QueryRowContext(ctx, "SELECT id FROM users WHERE id = $1", userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not check user_id existence: %w", err)
	}
	return true, nil
}

func (ur *AuthRepository) DoesUsernameExist(ctx context.Context, username string) (bool, error) {
	var usernameStr string
	err := ur.q.QueryRowContext(ctx, "SELECT user_name FROM users WHERE user_name = $1", username).Scan(&usernameStr)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not check username existence: %w", err)
	}
	return usernameStr != "", nil
}

func (ur *AuthRepository) SetRole(ctx context.Context, userID int64, role domain.Role) error {
	result, err := ur.q.ExecContext(ctx, "UPDATE users SET role = $1 WHERE id = $2", string(role), userID)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// RemoveUser deletes the user with their favorites, lists and list items.
func (ur *AuthRepository) RemoveUser(ctx context.Context, id int64) error {
	return inTx(ctx, ur.q, func(q querier) error {
		stmts := []string{
			"DELETE FROM verb_list_items WHERE list_id IN (SELECT id FROM verb_lists WHERE user_id = $1)",
			"DELETE FROM verb_lists WHERE user_id = $1",
			"DELETE FROM favorites WHERE user_id = $1",
		}
		for _, stmt := range stmts {
			if _, err := q.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("failed to remove user data: %w", err)
			}
		}
		result, err := q.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to remove user: %w", err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("no user found with id %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}
