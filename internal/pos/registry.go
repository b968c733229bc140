package pos

import "sync"

// Registry holds one Workspace per session. Workspaces are page state and
// disappear with the session.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry() *Registry {
	return &Registry{workspaces: make(map[string]*Workspace)}
}

func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[sessionID]
	if !ok {
		ws = NewWorkspace()
		r.workspaces[sessionID] = ws
	}
	return ws
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workspaces, sessionID)
}

// Prune drops every workspace whose session alive reports as gone and returns
// how many were dropped. alive is called without the registry lock held.
func (r *Registry) Prune(alive func(sessionID string) bool) int {
	r.mu.Lock()
	ids := make([]string, 0, len(r.workspaces))
	for id := range r.workspaces {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	dropped := 0
	for _, id := range ids {
		if alive(id) {
			continue
		}
		r.Drop(id)
		dropped++
	}
	return dropped
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
