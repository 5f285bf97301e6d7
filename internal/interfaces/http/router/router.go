package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by anything that adds routes to a group.
// Handlers implement it with paths relative to their domain prefix.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts domain groups below /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
	middleware []gin.HandlerFunc
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion overrides the "v1" prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware that runs for API routes only; /health and NoRoute
// stay outside of it.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup creates the API group and lets every registrar add its routes
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}

func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// DomainGroup collects the handlers of one bounded context (sales, catalog,
// partner, production) under a shared prefix and middleware.
type DomainGroup struct {
	prefix     string
	middleware []gin.HandlerFunc
	mounted    []RouteRegistrar
	reads      []readRoute
}

type readRoute struct {
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET adds a read-only route directly on the group
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.reads = append(dg.reads, readRoute{path: path, handlers: handlers})
	return dg
}

// Mount attaches handlers that register their own routes below the group
func (dg *DomainGroup) Mount(registrars ...RouteRegistrar) *DomainGroup {
	dg.mounted = append(dg.mounted, registrars...)
	return dg
}

func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, route := range dg.reads {
		group.GET(route.path, route.handlers...)
	}
	for _, registrar := range dg.mounted {
		registrar.RegisterRoutes(group)
	}
}
