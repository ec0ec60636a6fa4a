package ui

// pendingSet tracks which list items have an action in flight, so a
// screen disables exactly that row's controls instead of the whole
// screen. Shared by the search screen (send request) and the requests
// screen (accept/reject).
type pendingSet map[string]bool

func newPendingSet() pendingSet { return make(pendingSet) }

func (p pendingSet) start(id string) { p[id] = true }

func (p pendingSet) done(id string) { delete(p, id) }

func (p pendingSet) active(id string) bool { return p[id] }
