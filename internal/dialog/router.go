package dialog

import (
	"context"
	"sort"

	"github.com/voicecart/voicecart/internal/session"
)

// HandlerFunc handles one intent against the current session state.
type HandlerFunc func(ctx context.Context, ev TurnEvent, s *session.State) (*result, error)

// Router is a static registry from intent name to handler, populated once at
// startup so every route is enumerable.
type Router struct {
	routes map[string]HandlerFunc
}

func NewRouter() *Router {
	return &Router{routes: make(map[string]HandlerFunc)}
}

// On registers a handler. Chainable; registering the same intent twice is a
// programming error and panics at startup.
func (r *Router) On(intent string, h HandlerFunc) *Router {
	if _, ok := r.routes[intent]; ok {
		panic("dialog: duplicate route for intent " + intent)
	}
	r.routes[intent] = h
	return r
}

func (r *Router) Lookup(intent string) (HandlerFunc, bool) {
	h, ok := r.routes[intent]
	return h, ok
}

// Routes lists registered intents, sorted, for startup logging and tests.
func (r *Router) Routes() []string {
	out := make([]string, 0, len(r.routes))
	for intent := range r.routes {
		out = append(out, intent)
	}
	sort.Strings(out)
	return out
}
