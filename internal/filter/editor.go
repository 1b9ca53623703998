package filter

// Candidate is an entry a settings UI can list and toggle.
type Candidate struct {
	Name        string
	DisplayName string
}

// Persister is where committed allow-lists are written.
type Persister interface {
	PutStringSet(key string, v []string)
}

// Editor is the toggle-set API a settings UI drives. Every mutation is
// committed immediately: the list is written to the persister under key
// and onCommit runs (the overlay uses it to drop its bitmap).
type Editor struct {
	list       *AllowList
	key        string
	store      Persister
	candidates func() []Candidate
	matches    func(query, name, display string) bool
	onCommit   func()
}

// NewEditor wires an editor. candidates lists every toggleable type;
// matches implements Search.
func NewEditor(list *AllowList, key string, store Persister, candidates func() []Candidate, matches func(query, name, display string) bool, onCommit func()) *Editor {
	return &Editor{
		list:       list,
		key:        key,
		store:      store,
		candidates: candidates,
		matches:    matches,
		onCommit:   onCommit,
	}
}

// Enable allows name.
func (e *Editor) Enable(name string) {
	e.list.Enable(name)
	e.commit()
}

// Disable disallows name.
func (e *Editor) Disable(name string) {
	e.list.Disable(name)
	e.commit()
}

// Toggle flips name and returns its new state.
func (e *Editor) Toggle(name string) bool {
	on := e.list.Toggle(name)
	e.commit()
	return on
}

// IsEnabled reports whether name is allowed.
func (e *Editor) IsEnabled(name string) bool { return e.list.IsEnabled(name) }

// All returns every allowed name, sorted.
func (e *Editor) All() []string { return e.list.All() }

// EnableAll allows every candidate.
func (e *Editor) EnableAll() {
	cands := e.candidates()
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	e.list.Reset(names...)
	e.commit()
}

// DisableAll clears the list.
func (e *Editor) DisableAll() {
	e.list.Reset()
	e.commit()
}

// Invert flips every candidate.
func (e *Editor) Invert() {
	for _, c := range e.candidates() {
		e.list.Toggle(c.Name)
	}
	e.commit()
}

// Search returns the candidates whose name or display name match query,
// in candidate order. An empty query returns all candidates.
func (e *Editor) Search(query string) []Candidate {
	var out []Candidate
	for _, c := range e.candidates() {
		if e.matches(query, c.Name, c.DisplayName) {
			out = append(out, c)
		}
	}
	return out
}

func (e *Editor) commit() {
	if e.store != nil {
		e.store.PutStringSet(e.key, e.list.All())
	}
	if e.onCommit != nil {
		e.onCommit()
	}
}
