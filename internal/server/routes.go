package server

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
)

// NamedRoute is one entry of the public route table.
type NamedRoute struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// RouteTable maps route names to their method and path template.
type RouteTable struct {
	byName map[string]NamedRoute
}

func NewRouteTable() *RouteTable {
	return &RouteTable{byName: make(map[string]NamedRoute)}
}

// Add names an echo route and records it.
func (t *RouteTable) Add(route *echo.Route, name string) {
	route.Name = name
	t.byName[name] = NamedRoute{Name: name, Method: route.Method, Path: route.Path}
}

func (t *RouteTable) Get(name string) (NamedRoute, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// All returns the routes sorted by name.
func (t *RouteTable) All() []NamedRoute {
	out := make([]NamedRoute, 0, len(t.byName))
	for _, r := range t.byName {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Paths returns name → path template.
func (t *RouteTable) Paths() map[string]string {
	out := make(map[string]string, len(t.byName))
	for name, r := range t.byName {
		out[name] = r.Path
	}
	return out
}

// URL fills the :param segments of the named route. Values are path-escaped.
func (t *RouteTable) URL(name string, params map[string]string) (string, error) {
	r, ok := t.byName[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return BuildPath(r.Path, params)
}

// BuildPath substitutes every :param segment of path with its escaped value.
func BuildPath(path string, params map[string]string) (string, error) {
	segments := strings.Split(path, "/")
	var missing []string
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		value, ok := params[seg[1:]]
		if !ok || value == "" {
			missing = append(missing, seg[1:])
			continue
		}
		segments[i] = url.PathEscape(value)
	}
	if len(missing) > 0 {
		return "", domain.Invalid(missing[0], "missing route parameter (need %s)", strings.Join(missing, ", "))
	}
	return strings.Join(segments, "/"), nil
}

func (s *Server) ListRoutes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.routes.Paths())
}

func (s *Server) ShowRoute(c echo.Context) error {
	name := c.Param("name")
	route, ok := s.routes.Get(name)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "unknown route " + name})
	}
	params := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	u, err := BuildPath(route.Path, params)
	if err != nil {
		return s.fail(c, "build route url", err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"name":   route.Name,
		"method": route.Method,
		"path":   route.Path,
		"url":    u,
	})
}
