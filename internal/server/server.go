package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	mw "github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/middleware"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/usecase"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the services the HTTP API is built on.
type Deps struct {
	Logger    *slog.Logger
	Auth      *usecase.AuthService
	JWT       *usecase.JWTAuth
	Verbs     *usecase.VerbService
	Favorites *usecase.FavoritesService
	Lists     *usecase.ListService
	DB        Pinger

	AllowedOrigins []string
	CookieSecure   bool
}

type Server struct {
	logger *slog.Logger

	authService      *usecase.AuthService
	jwtService       *usecase.JWTAuth
	verbService      *usecase.VerbService
	favoritesService *usecase.FavoritesService
	listService      *usecase.ListService
	db               Pinger

	cookieSecure bool
	routes       *RouteTable
}

// New builds the echo instance with every route of the API registered under its name.
func New(deps Deps) (*echo.Echo, *RouteTable) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:           logger,
		authService:      deps.Auth,
		jwtService:       deps.JWT,
		verbService:      deps.Verbs,
		favoritesService: deps.Favorites,
		listService:      deps.Lists,
		db:               deps.DB,
		cookieSecure:     deps.CookieSecure,
		routes:           NewRouteTable(),
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		middleware.Recover(),
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:   true,
			LogURI:      true,
			LogStatus:   true,
			LogLatency:  true,
			LogRemoteIP: true,
			LogError:    true,
			HandleError: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				attrs := []slog.Attr{
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.Duration("latency", v.Latency),
					slog.String("remote_ip", v.RemoteIP),
				}
				if v.Error != nil {
					attrs = append(attrs, slog.String("err", v.Error.Error()))
				}
				logger.LogAttrs(context.Background(), slog.LevelInfo, "request", attrs...)
				return nil
			},
		}),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowCredentials: true,
		}),
	)

	var jwtParser mw.AccessTokenParser = noTokens{}
	if deps.JWT != nil {
		jwtParser = deps.JWT
	}
	var users mw.UserChecker
	if deps.Auth != nil {
		users = deps.Auth
	}
	s.register(e, mw.Authenticate(jwtParser, users, s.logger))
	return e, s.routes
}

// noTokens rejects every token; it stands in when the router is built only to list its routes.
type noTokens struct{}

func (noTokens) ParseAccess(string) (*domain.Claims, error) { return nil, domain.ErrUnauthorized }

func (s *Server) register(e *echo.Echo, authenticate echo.MiddlewareFunc) {
	r := s.routes
	admin := mw.RequireRole(domain.RoleAdmin)
	auth := mw.RequireAuth

	r.Add(e.GET("/healthz", s.Health), "health")

	// credential endpoints never look at the access token
	credentials := e.Group("/api/auth")
	r.Add(credentials.POST("/signup", s.SignUp), "auth.signup")
	r.Add(credentials.POST("/signin", s.SignIn), "auth.signin")
	r.Add(credentials.POST("/refresh", s.RefreshRefreshToken), "auth.refresh")

	api := e.Group("/api", authenticate)
	r.Add(api.POST("/auth/signout", s.SignOut, auth), "auth.signout")
	r.Add(api.GET("/auth/me", s.Me, auth), "auth.me")

	r.Add(api.GET("/letters", s.Letters), "letters.index")
	r.Add(api.GET("/tenses", s.Tenses), "tenses.index")
	r.Add(api.GET("/languages", s.Languages), "languages.index")
	r.Add(api.GET("/verbs", s.ListVerbs), "verbs.index")
	r.Add(api.GET("/verbs/search", s.SearchVerbs), "verbs.search")
	r.Add(api.GET("/letters/:letter/verbs", s.ListLetterVerbs), "verbs.letter")
	r.Add(api.GET("/verbs/:letter/:slug", s.ShowVerb), "verbs.show")
	r.Add(api.GET("/verbs/:letter/:slug/tenses/:tense", s.ShowVerbTense), "verbs.tense")

	r.Add(api.POST("/verbs", s.CreateVerb, admin), "verbs.create")
	r.Add(api.PUT("/verbs/:letter/:slug", s.UpdateVerb, admin), "verbs.update")
	r.Add(api.DELETE("/verbs/:letter/:slug", s.DeleteVerb, admin), "verbs.delete")
	r.Add(api.PUT("/verbs/:letter/:slug/conjugations/:tense", s.UpdateConjugation, admin), "conjugations.update")
	r.Add(api.POST("/verbs/:letter/:slug/sentences/:tense", s.CreateSentence, admin), "sentences.create")
	r.Add(api.DELETE("/verbs/:letter/:slug/sentences/:tense/:id", s.DeleteSentence, admin), "sentences.delete")
	r.Add(api.PUT("/verbs/:letter/:slug/sentences/:tense/:id/translations/:lang", s.TranslateSentence, admin), "sentences.translate")
	r.Add(api.PUT("/verbs/:letter/:slug/translations/:lang", s.UpdateTranslation, admin), "translations.update")

	r.Add(api.GET("/favorites", s.ListFavorites, auth), "favorites.index")
	r.Add(api.PUT("/favorites/:letter/:slug", s.AddFavorite, auth), "favorites.add")
	r.Add(api.DELETE("/favorites/:letter/:slug", s.RemoveFavorite, auth), "favorites.remove")

	r.Add(api.GET("/lists", s.ListLists, auth), "lists.index")
	r.Add(api.POST("/lists", s.CreateList, auth), "lists.create")
	r.Add(api.GET("/lists/:id", s.ShowList, auth), "lists.show")
	r.Add(api.PATCH("/lists/:id", s.RenameList, auth), "lists.rename")
	r.Add(api.DELETE("/lists/:id", s.DeleteList, auth), "lists.delete")
	r.Add(api.PUT("/lists/:id/verbs/:letter/:slug", s.AddListVerb, auth), "lists.add")
	r.Add(api.DELETE("/lists/:id/verbs/:letter/:slug", s.RemoveListVerb, auth), "lists.remove")
	r.Add(api.GET("/lists/:id/practice", s.GetDueItem, auth), "lists.practice")
	r.Add(api.POST("/lists/:id/items/:item/rate", s.RateItem, auth), "lists.rate")

	r.Add(api.GET("/routes", s.ListRoutes), "routes.index")
	r.Add(api.GET("/routes/:name", s.ShowRoute), "routes.show")
}

func (s *Server) Health(c echo.Context) error {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Error("health check failed", slog.Any("err", err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func statusOf(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// fail writes err as a {"message": ...} response with the matching status code.
func (s *Server) fail(c echo.Context, op string, err error) error {
	status := statusOf(err)
	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		s.logger.Error("failed to "+op, slog.String("path", c.Path()), slog.Any("err", err))
		message = "server error try again later"
	case http.StatusUnauthorized:
		s.logger.Debug("failed to "+op, slog.Any("err", err))
		message = "unauthorized"
	default:
		s.logger.Debug("failed to "+op, slog.Any("err", err))
	}
	return c.JSON(status, map[string]string{"message": message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"message": message})
}

func userID(c echo.Context) int64 {
	claims, _ := mw.ClaimsFrom(c)
	if claims == nil {
		return 0
	}
	return claims.UserID
}

func pageQuery(c echo.Context) (page, perPage int, ok bool) {
	err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("perPage", &perPage).
		BindError()
	return page, perPage, err == nil
}
