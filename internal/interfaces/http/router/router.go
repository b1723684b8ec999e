package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on an API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them under the API base path with
// the shared API middleware. Routes outside the API stay on the engine.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	middleware []gin.HandlerFunc
}

type RouterOption func(*Router)

// WithAPIVersion mounts the API under /api/<version> instead of /api
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Use adds middleware that wraps every API route but nothing else
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// BasePath is the path the API is mounted at
func (r *Router) BasePath() string {
	if r.apiVersion == "" {
		return "/api"
	}
	return "/api/" + r.apiVersion
}

// Setup mounts every registrar; call it once, after all Register calls
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, reg := range r.registrars {
		reg.RegisterRoutes(api)
	}
}

// DomainGroup is the routes of one resource under a shared prefix, with
// optional nested groups
type DomainGroup struct {
	name       string
	prefix     string
	routes     []route
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, p string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: p, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, p, handlers)
}

func (dg *DomainGroup) POST(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, p, handlers)
}

func (dg *DomainGroup) PUT(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, p, handlers)
}

func (dg *DomainGroup) PATCH(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPatch, p, handlers)
}

func (dg *DomainGroup) DELETE(p string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, p, handlers)
}

// Group nests a group under this one's prefix
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.RegisterRoutes(group)
	}
}

// Paths lists "METHOD /prefix/path" for every route, nested groups included
func (dg *DomainGroup) Paths() []string {
	return dg.paths("/")
}

func (dg *DomainGroup) paths(parent string) []string {
	base := path.Join(parent, dg.prefix)
	var out []string
	for _, rt := range dg.routes {
		out = append(out, rt.method+" "+path.Join(base, rt.path))
	}
	for _, sub := range dg.subgroups {
		out = append(out, sub.paths(base)...)
	}
	return out
}

func (dg *DomainGroup) Name() string { return dg.name }

func (dg *DomainGroup) Prefix() string { return dg.prefix }
