package book

// Coordinator is one member of the federation roster.
type Coordinator struct {
	ShortAlias  string `json:"shortAlias"`
	LongAlias   string `json:"longAlias"`
	Enabled     bool   `json:"enabled"`
	Up          bool   `json:"up"`          // coordinator info was fetched
	LoadingInfo bool   `json:"loadingInfo"` // info request in flight
}

// Federation is a read-only roster snapshot in display order.
type Federation struct {
	coordinators []Coordinator
}

// NewFederation copies coordinators into a snapshot.
func NewFederation(coordinators []Coordinator) Federation {
	owned := make([]Coordinator, len(coordinators))
	copy(owned, coordinators)
	return Federation{coordinators: owned}
}

// Len returns the number of coordinators.
func (f Federation) Len() int {
	return len(f.coordinators)
}

// Coordinators returns a copy of the roster.
func (f Federation) Coordinators() []Coordinator {
	out := make([]Coordinator, len(f.coordinators))
	copy(out, f.coordinators)
	return out
}

// Get returns the coordinator with shortAlias.
func (f Federation) Get(shortAlias string) (Coordinator, bool) {
	for _, c := range f.coordinators {
		if c.ShortAlias == shortAlias {
			return c, true
		}
	}
	return Coordinator{}, false
}

// WithToggled returns a new federation where shortAlias has its enabled flag
// flipped. The receiver is left untouched. ok is false when the alias is
// unknown.
func (f Federation) WithToggled(shortAlias string) (Federation, bool) {
	next := f.Coordinators()
	for i := range next {
		if next[i].ShortAlias == shortAlias {
			next[i].Enabled = !next[i].Enabled
			return Federation{coordinators: next}, true
		}
	}
	return f, false
}

// EnabledCount returns how many coordinators are enabled.
func (f Federation) EnabledCount() int {
	n := 0
	for _, c := range f.coordinators {
		if c.Enabled {
			n++
		}
	}
	return n
}
