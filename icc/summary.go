package icc

// channelEntry aggregates the callers and callees recorded for one component
// on one channel, deduplicating by identity so that retagging the same
// dispatch site twice (e.g. two patcher passes over unchanged IR) never
// double-counts it, per the "at most once per channel" invariant.
type channelEntry struct {
	callers    []CallerInfo
	callees    []CalleeInfo
	callerSeen map[string]bool
	calleeSeen map[string]bool
}

func newChannelEntry() *channelEntry {
	return &channelEntry{callerSeen: map[string]bool{}, calleeSeen: map[string]bool{}}
}

func (e *channelEntry) addCaller(c CallerInfo) {
	id := c.(identifiable).identity()
	if e.callerSeen[id] {
		return
	}
	e.callerSeen[id] = true
	e.callers = append(e.callers, c)
}

func (e *channelEntry) addCallee(c CalleeInfo) {
	id := c.(identifiable).identity()
	if e.calleeSeen[id] {
		return
	}
	e.calleeSeen[id] = true
	e.callees = append(e.callees, c)
}

// ComponentSummary is the per-component aggregate: for each channel, every
// caller that dispatches into this component and every callee this
// component dispatches out to.
type ComponentSummary struct {
	Name    string
	entries map[Channel]*channelEntry
}

func newComponentSummary(name string) *ComponentSummary {
	return &ComponentSummary{Name: name, entries: map[Channel]*channelEntry{}}
}

func (s *ComponentSummary) entry(ch Channel) *channelEntry {
	e, ok := s.entries[ch]
	if !ok {
		e = newChannelEntry()
		s.entries[ch] = e
	}
	return e
}

// AddCaller records that c dispatches into this component over ch.
func (s *ComponentSummary) AddCaller(ch Channel, c CallerInfo) { s.entry(ch).addCaller(c) }

// AddCallee records that this component dispatches out to c over ch.
func (s *ComponentSummary) AddCallee(ch Channel, c CalleeInfo) { s.entry(ch).addCallee(c) }

// Callers returns every caller recorded for this component on ch.
func (s *ComponentSummary) Callers(ch Channel) []CallerInfo {
	e, ok := s.entries[ch]
	if !ok {
		return nil
	}
	out := make([]CallerInfo, len(e.callers))
	copy(out, e.callers)
	return out
}

// Callees returns every callee recorded for this component on ch.
func (s *ComponentSummary) Callees(ch Channel) []CalleeInfo {
	e, ok := s.entries[ch]
	if !ok {
		return nil
	}
	out := make([]CalleeInfo, len(e.callees))
	copy(out, e.callees)
	return out
}

// SummaryTable is ComponentSummaryTable: the shared, mutable index every
// registered patcher both reads from and writes into during one patching
// pass (spec.md §4.2, §9).
type SummaryTable struct {
	components map[string]*ComponentSummary
}

// NewSummaryTable returns an empty table.
func NewSummaryTable() *SummaryTable {
	return &SummaryTable{components: map[string]*ComponentSummary{}}
}

// Component returns the summary for the named component, creating it on
// first access.
func (t *SummaryTable) Component(name string) *ComponentSummary {
	c, ok := t.components[name]
	if !ok {
		c = newComponentSummary(name)
		t.components[name] = c
	}
	return c
}

// Components returns every component summary currently recorded, in no
// particular order.
func (t *SummaryTable) Components() []*ComponentSummary {
	out := make([]*ComponentSummary, 0, len(t.components))
	for _, c := range t.components {
		out = append(out, c)
	}
	return out
}
