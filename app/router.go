package app

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/iov-one/paychan"
	"github.com/iov-one/paychan/errors"
)

// isRoute accepts lowercase, slash separated paths such as "channel/open".
var isRoute = regexp.MustCompile(`^[a-z0-9_]+(/[a-z0-9_]+)*$`).MatchString

// Router allows us to register many handlers with different paths and
// dispatch a transaction to the one matching its message path.
type Router struct {
	routes map[string]paychan.Handler
}

var _ paychan.Registry = (*Router)(nil)
var _ paychan.Handler = (*Router)(nil)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]paychan.Handler),
	}
}

// Handle adds a new handler for the given path. It panics if the path is
// malformed or already registered, as both are programming errors.
func (r *Router) Handle(path string, h paychan.Handler) {
	if !isRoute(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Paths returns all registered paths in lexicographical order.
func (r *Router) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (r *Router) handler(tx paychan.Tx) (paychan.Handler, error) {
	path := paychan.GetPath(tx)
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)
	}
	return h, nil
}

// Check dispatches to the handler registered for the message path.
func (r *Router) Check(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, db, tx)
}

// Deliver dispatches to the handler registered for the message path.
func (r *Router) Deliver(ctx paychan.Context, db paychan.KVStore, tx paychan.Tx) (*paychan.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, db, tx)
}
