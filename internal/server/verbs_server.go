package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

type textBody struct {
	Text string `json:"text"`
}

func (s *Server) Letters(c echo.Context) error {
	letters, err := s.verbService.Letters(c.Request().Context())
	if err != nil {
		return s.fail(c, "count letters", err)
	}
	return c.JSON(http.StatusOK, letters)
}

func (s *Server) Tenses(c echo.Context) error {
	type tense struct {
		Tense domain.Tense `json:"tense"`
		Name  string       `json:"name"`
	}
	out := make([]tense, 0, len(domain.Tenses()))
	for _, t := range domain.Tenses() {
		out = append(out, tense{Tense: t, Name: t.Name()})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) Languages(c echo.Context) error {
	type language struct {
		Code domain.Language `json:"code"`
		Name string          `json:"name"`
	}
	out := make([]language, 0, len(domain.Languages()))
	for _, l := range domain.Languages() {
		out = append(out, language{Code: l, Name: l.Name()})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) ListVerbs(c echo.Context) error {
	page, perPage, ok := pageQuery(c)
	if !ok {
		return badRequest(c, "page and perPage must be integers")
	}
	verbs, err := s.verbService.Index(c.Request().Context(), page, perPage)
	if err != nil {
		return s.fail(c, "list verbs", err)
	}
	return c.JSON(http.StatusOK, verbs)
}

func (s *Server) SearchVerbs(c echo.Context) error {
	page, perPage, ok := pageQuery(c)
	if !ok {
		return badRequest(c, "page and perPage must be integers")
	}
	verbs, err := s.verbService.Search(c.Request().Context(), c.QueryParam("q"), page, perPage)
	if err != nil {
		return s.fail(c, "search verbs", err)
	}
	return c.JSON(http.StatusOK, verbs)
}

func (s *Server) ListLetterVerbs(c echo.Context) error {
	page, perPage, ok := pageQuery(c)
	if !ok {
		return badRequest(c, "page and perPage must be integers")
	}
	verbs, err := s.verbService.ByLetter(c.Request().Context(), c.Param("letter"), page, perPage)
	if err != nil {
		return s.fail(c, "list verbs by letter", err)
	}
	return c.JSON(http.StatusOK, verbs)
}

func (s *Server) ShowVerb(c echo.Context) error {
	ctx := c.Request().Context()
	verb, err := s.verbService.Show(ctx, c.Param("letter"), c.Param("slug"), c.QueryParam("lang"))
	if err != nil {
		return s.fail(c, "show verb", err)
	}
	if uid := userID(c); uid != 0 && s.favoritesService != nil {
		favorited, err := s.favoritesService.Contains(ctx, uid, verb.Ref())
		if err != nil {
			return s.fail(c, "check favorite", err)
		}
		verb.Favorited = &favorited
	}
	return c.JSON(http.StatusOK, verb)
}

func (s *Server) ShowVerbTense(c echo.Context) error {
	detail, err := s.verbService.Tense(c.Request().Context(), c.Param("letter"), c.Param("slug"), c.Param("tense"), c.QueryParam("lang"))
	if err != nil {
		return s.fail(c, "show verb tense", err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) CreateVerb(c echo.Context) error {
	var in domain.VerbInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid input")
	}
	verb, err := s.verbService.Create(c.Request().Context(), in)
	if err != nil {
		return s.fail(c, "create verb", err)
	}
	return c.JSON(http.StatusCreated, verb)
}

func (s *Server) UpdateVerb(c echo.Context) error {
	var in domain.VerbInput
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return badRequest(c, "invalid input")
	}
	verb, err := s.verbService.Update(c.Request().Context(), c.Param("letter"), c.Param("slug"), in)
	if err != nil {
		return s.fail(c, "update verb", err)
	}
	return c.JSON(http.StatusOK, verb)
}

func (s *Server) DeleteVerb(c echo.Context) error {
	if err := s.verbService.Delete(c.Request().Context(), c.Param("letter"), c.Param("slug")); err != nil {
		return s.fail(c, "delete verb", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) UpdateConjugation(c echo.Context) error {
	var in domain.Conjugation
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return badRequest(c, "invalid input")
	}
	conj, err := s.verbService.SetConjugation(c.Request().Context(), c.Param("letter"), c.Param("slug"), c.Param("tense"), in)
	if err != nil {
		return s.fail(c, "save conjugation", err)
	}
	return c.JSON(http.StatusOK, conj)
}

func (s *Server) CreateSentence(c echo.Context) error {
	var in domain.SentenceInput
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return badRequest(c, "invalid input")
	}
	sentence, err := s.verbService.AddSentence(c.Request().Context(), c.Param("letter"), c.Param("slug"), c.Param("tense"), in)
	if err != nil {
		return s.fail(c, "add sentence", err)
	}
	return c.JSON(http.StatusCreated, sentence)
}

func (s *Server) DeleteSentence(c echo.Context) error {
	var id int64
	if err := echo.PathParamsBinder(c).Int64("id", &id).BindError(); err != nil {
		return badRequest(c, "invalid sentence id")
	}
	err := s.verbService.DeleteSentence(c.Request().Context(), c.Param("letter"), c.Param("slug"), c.Param("tense"), id)
	if err != nil {
		return s.fail(c, "delete sentence", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) TranslateSentence(c echo.Context) error {
	var id int64
	if err := echo.PathParamsBinder(c).Int64("id", &id).BindError(); err != nil {
		return badRequest(c, "invalid sentence id")
	}
	var body textBody
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return badRequest(c, "invalid input")
	}
	t, err := s.verbService.SetSentenceTranslation(c.Request().Context(),
		c.Param("letter"), c.Param("slug"), c.Param("tense"), id, c.Param("lang"), body.Text)
	if err != nil {
		return s.fail(c, "translate sentence", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) UpdateTranslation(c echo.Context) error {
	var body textBody
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return badRequest(c, "invalid input")
	}
	t, err := s.verbService.SetTranslation(c.Request().Context(), c.Param("letter"), c.Param("slug"), c.Param("lang"), body.Text)
	if err != nil {
		return s.fail(c, "save translation", err)
	}
	return c.JSON(http.StatusOK, t)
}
