package workflow

import (
	"sync"

	"portfolio/src/session"
)

// Registry hands out one Workflow per session.
type Registry struct {
	deps Dependencies

	mutex sync.Mutex
	flows map[string]*Workflow
}

func NewRegistry(deps Dependencies) *Registry {
	return &Registry{deps: deps, flows: make(map[string]*Workflow)}
}

// For returns the session's workflow, creating an idle one on first use.
func (r *Registry) For(sess *session.Session) *Workflow {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	w, ok := r.flows[sess.Token]
	if !ok {
		w = New(sess, r.deps)
		r.flows[sess.Token] = w
	}
	return w
}

// Close forgets the session's workflow. An order already in flight still completes; its
// result is simply no longer observable.
func (r *Registry) Close(token string) {
	r.mutex.Lock()
	delete(r.flows, token)
	r.mutex.Unlock()
}
