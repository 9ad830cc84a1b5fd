// Package router adds middleware stacks and route groups on top of the
// method-aware http.ServeMux. Path wildcards such as {productId} are read with
// r.PathValue.
package router

import (
	"net/http"
	"slices"
	"sort"
)

// Middleware decorates a handler.
type Middleware func(http.Handler) http.Handler

// Router registers API routes. Groups share the parent's mux and route table
// and extend its middleware stack.
type Router struct {
	mux    *http.ServeMux
	stack  []Middleware
	routes *[]string
}

// New returns a Router whose routes all run behind global.
func New(global ...Middleware) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		stack:  global,
		routes: new([]string),
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Group returns a router for routes that also need mw, such as RequireAuth
// for customer routes or RequireAdmin for the admin API.
func (r *Router) Group(mw ...Middleware) *Router {
	return &Router{
		mux:    r.mux,
		stack:  append(slices.Clone(r.stack), mw...),
		routes: r.routes,
	}
}

func (r *Router) Get(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, pattern, h, mw...)
}

func (r *Router) Post(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, pattern, h, mw...)
}

func (r *Router) Put(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPut, pattern, h, mw...)
}

func (r *Router) Patch(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPatch, pattern, h, mw...)
}

func (r *Router) Delete(pattern string, h http.HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodDelete, pattern, h, mw...)
}

// Handle registers h for method and pattern. mw runs after the router's own
// stack, so a per-route rate limit sees the request after logging and auth.
func (r *Router) Handle(method, pattern string, h http.Handler, mw ...Middleware) {
	r.register(method+" "+pattern, h, mw)
}

// Mount registers h for a raw ServeMux pattern, e.g. "GET /metrics".
func (r *Router) Mount(pattern string, h http.Handler, mw ...Middleware) {
	r.register(pattern, h, mw)
}

// NotFound answers every request that matches no other route.
func (r *Router) NotFound(h http.HandlerFunc) {
	r.mux.Handle("/", r.compose(h, nil))
}

// Routes lists the registered patterns in sorted order.
func (r *Router) Routes() []string {
	out := slices.Clone(*r.routes)
	sort.Strings(out)
	return out
}

func (r *Router) register(pattern string, h http.Handler, mw []Middleware) {
	r.mux.Handle(pattern, r.compose(h, mw))
	*r.routes = append(*r.routes, pattern)
}

// compose wraps h so the first middleware of the stack runs first.
func (r *Router) compose(h http.Handler, mw []Middleware) http.Handler {
	all := append(slices.Clone(r.stack), mw...)
	for i := len(all) - 1; i >= 0; i-- {
		h = all[i](h)
	}
	return h
}
