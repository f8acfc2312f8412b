package server

import (
	"net/http"
	"slices"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/gin-gonic/gin"
)

var supportedMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// Route binds handlers to a method and a path relative to its group.
type Route struct {
	Method   string
	Path     string
	Handlers []gin.HandlerFunc
}

// GET is a GET route.
func GET(path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: http.MethodGet, Path: path, Handlers: handlers}
}

// POST is a POST route.
func POST(path string, handlers ...gin.HandlerFunc) Route {
	return Route{Method: http.MethodPost, Path: path, Handlers: handlers}
}

// Group is a set of routes sharing a prefix under the base URL and
// middlewares that run only for them.
type Group struct {
	Prefix      string
	Middlewares []gin.HandlerFunc
	Routes      []Route
}

// NewGroup returns a group of routes under prefix.
func NewGroup(prefix string, routes ...Route) Group {
	return Group{Prefix: prefix, Routes: routes}
}

// Use returns a copy of g with extra group middlewares.
func (g Group) Use(middlewares ...gin.HandlerFunc) Group {
	g.Middlewares = append(slices.Clone(g.Middlewares), middlewares...)
	return g
}

// register mounts groups below base. Routes with a method outside
// supportedMethods are logged and skipped.
func register(base *gin.RouterGroup, groups []Group, logger *log.Log) {
	for _, g := range groups {
		rg := base.Group(g.Prefix, g.Middlewares...)
		for _, r := range g.Routes {
			if !slices.Contains(supportedMethods, r.Method) || len(r.Handlers) == 0 {
				logger.Error("route skipped",
					log.String("method", r.Method),
					log.String("path", g.Prefix+r.Path))
				continue
			}
			rg.Handle(r.Method, r.Path, r.Handlers...)
		}
	}
}
