package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

type listBody struct {
	Name string `json:"name"`
}

func listID(c echo.Context) (int64, bool) {
	var id int64
	err := echo.PathParamsBinder(c).Int64("id", &id).BindError()
	return id, err == nil
}

func (s *Server) ListLists(c echo.Context) error {
	lists, err := s.listService.Lists(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(c, "list verb lists", err)
	}
	return c.JSON(http.StatusOK, lists)
}

func (s *Server) CreateList(c echo.Context) error {
	var body listBody
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid input")
	}
	list, err := s.listService.Create(c.Request().Context(), userID(c), body.Name)
	if err != nil {
		return s.fail(c, "create list", err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (s *Server) ShowList(c echo.Context) error {
	id, ok := listID(c)
	if !ok {
		return badRequest(c, "invalid list id")
	}
	list, err := s.listService.Show(c.Request().Context(), userID(c), id)
	if err != nil {
		return s.fail(c, "show list", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) RenameList(c echo.Context) error {
	id, ok := listID(c)
	if !ok {
		return badRequest(c, "invalid list id")
	}
	var body listBody
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return badRequest(c, "invalid input")
	}
	list, err := s.listService.Rename(c.Request().Context(), userID(c), id, body.Name)
	if err != nil {
		return s.fail(c, "rename list", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) DeleteList(c echo.Context) error {
	id, ok := listID(c)
	if !ok {
		return badRequest(c, "invalid list id")
	}
	if err := s.listService.Delete(c.Request().Context(), userID(c), id); err != nil {
		return s.fail(c, "delete list", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) AddListVerb(c echo.Context) error {
	id, ok := listID(c)
	if !ok {
		return badRequest(c, "invalid list id")
	}
	item, err := s.listService.AddVerb(c.Request().Context(), userID(c), id, c.Param("letter"), c.Param("slug"))
	if err != nil {
		return s.fail(c, "add verb to list", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) RemoveListVerb(c echo.Context) error {
	id, ok := listID(c)
	if !ok {
		return badRequest(c, "invalid list id")
	}
	if err := s.listService.RemoveVerb(c.Request().Context(), userID(c), id, c.Param("letter"), c.Param("slug")); err != nil {
		return s.fail(c, "remove verb from list", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDueItem answers 204 when nothing on the list is due.
func (s *Server) GetDueItem(c echo.Context) error {
	id, ok := listID(c)
	if !ok {
		return badRequest(c, "invalid list id")
	}
	item, err := s.listService.NextDue(c.Request().Context(), userID(c), id)
	if err != nil {
		return s.fail(c, "get due item", err)
	}
	if item == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) RateItem(c echo.Context) error {
	var id, itemID int64
	err := echo.PathParamsBinder(c).
		Int64("id", &id).
		Int64("item", &itemID).
		BindError()
	if err != nil {
		return badRequest(c, "invalid list or item id")
	}
	var input domain.RateInput
	if err := (&echo.DefaultBinder{}).BindBody(c, &input); err != nil {
		return badRequest(c, "invalid input")
	}
	item, err := s.listService.Rate(c.Request().Context(), userID(c), id, itemID, input.Rating)
	if err != nil {
		return s.fail(c, "rate item", err)
	}
	return c.JSON(http.StatusOK, item)
}
