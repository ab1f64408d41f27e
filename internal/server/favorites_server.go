package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) ListFavorites(c echo.Context) error {
	page, perPage, ok := pageQuery(c)
	if !ok {
		return badRequest(c, "page and perPage must be integers")
	}
	favorites, err := s.favoritesService.List(c.Request().Context(), userID(c), page, perPage)
	if err != nil {
		return s.fail(c, "list favorites", err)
	}
	return c.JSON(http.StatusOK, favorites)
}

func (s *Server) AddFavorite(c echo.Context) error {
	if err := s.favoritesService.Add(c.Request().Context(), userID(c), c.Param("letter"), c.Param("slug")); err != nil {
		return s.fail(c, "add favorite", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) RemoveFavorite(c echo.Context) error {
	if err := s.favoritesService.Remove(c.Request().Context(), userID(c), c.Param("letter"), c.Param("slug")); err != nil {
		return s.fail(c, "remove favorite", err)
	}
	return c.NoContent(http.StatusNoContent)
}
