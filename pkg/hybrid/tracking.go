package hybrid

// scope records the slots read while one computed getter runs.
// Scopes stack: a nested computed read opens its own scope, and only the
// nested slot itself is recorded in the outer one.
type scope struct {
	owner *slot
	reads []*slot
	seen  map[*slot]bool
}

func (rt *Runtime) pushScope(owner *slot) *scope {
	sc := &scope{owner: owner, seen: make(map[*slot]bool)}
	rt.scopes = append(rt.scopes, sc)
	return sc
}

func (rt *Runtime) popScope() {
	rt.scopes[len(rt.scopes)-1] = nil
	rt.scopes = rt.scopes[:len(rt.scopes)-1]
}

// track records s as a dependency of the innermost scope.
func (rt *Runtime) track(s *slot) {
	if len(rt.scopes) == 0 {
		return
	}
	sc := rt.scopes[len(rt.scopes)-1]
	if sc.owner == s || sc.seen[s] {
		return
	}
	sc.seen[s] = true
	sc.reads = append(sc.reads, s)
}
