package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	mw "github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/middleware"
)

const refreshTokenCookie = "refresh_token"

func (s *Server) SignIn(c echo.Context) error {
	var creds domain.AuthCredentials
	if err := c.Bind(&creds); err != nil {
		return badRequest(c, "invalid input")
	}
	token, err := s.authService.SignIn(c.Request().Context(), creds.Username, creds.Password)
	if err != nil {
		return s.fail(c, "signin", err)
	}
	s.enrichAuthToken(c, token)
	return c.JSON(http.StatusOK, token)
}

func (s *Server) SignUp(c echo.Context) error {
	var creds domain.AuthCredentials
	if err := c.Bind(&creds); err != nil {
		return badRequest(c, "invalid input")
	}
	token, err := s.authService.SignUp(c.Request().Context(), creds)
	if err != nil {
		return s.fail(c, "signup", err)
	}
	s.enrichAuthToken(c, token)
	return c.JSON(http.StatusCreated, token)
}

// RefreshRefreshToken takes the refresh token from its cookie or, failing that, from the body.
func (s *Server) RefreshRefreshToken(c echo.Context) error {
	var refreshToken string
	cookie, err := c.Cookie(refreshTokenCookie)
	switch {
	case err == nil:
		refreshToken = cookie.Value
	case !errors.Is(err, http.ErrNoCookie):
		return s.fail(c, "read refresh token cookie", err)
	}
	if refreshToken == "" {
		var body domain.Token
		if err := c.Bind(&body); err != nil {
			return badRequest(c, "invalid input")
		}
		refreshToken = body.Refresh
	}
	if refreshToken == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "refresh token not found"})
	}
	updatedTokens, err := s.authService.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return s.fail(c, "refresh tokens", err)
	}
	s.enrichAuthToken(c, updatedTokens)
	return c.JSON(http.StatusOK, updatedTokens)
}

func (s *Server) SignOut(c echo.Context) error {
	if err := s.authService.SignOut(c.Request().Context(), userID(c)); err != nil {
		return s.fail(c, "signout", err)
	}
	s.clearAuthToken(c)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) Me(c echo.Context) error {
	user, err := s.authService.Me(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(c, "load current user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) enrichAuthToken(c echo.Context, token *domain.Token) {
	c.SetCookie(&http.Cookie{
		Name:     mw.AccessTokenCookie,
		Value:    token.Access,
		Path:     "/",
		Expires:  time.Now().Add(s.jwtService.AccessTokenTTL()),
		Secure:   s.cookieSecure,
		HttpOnly: false, // to be able to take cookies by frontend
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token.Refresh,
		Path:     "/api/auth",
		Expires:  time.Now().Add(s.jwtService.RefreshTokenTTL()),
		Secure:   s.cookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAuthToken(c echo.Context) {
	for name, path := range map[string]string{mw.AccessTokenCookie: "/", refreshTokenCookie: "/api/auth"} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			MaxAge:   -1,
			Secure:   s.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
