package export

import (
	"gopkg.in/yaml.v3"

	"github.com/pathsentinel/icc/icc"
	"github.com/pathsentinel/icc/ir"
	"github.com/pathsentinel/icc/traverse"
)

// pathSnapshot is the YAML-serializable shape of one traverse.CallPath,
// flattened to strings so a snapshot is readable without the IR loaded.
type pathSnapshot struct {
	RunID      string   `yaml:"runId"`
	Edges      []string `yaml:"edges"`
	TargetUnit int      `yaml:"targetUnit"`
	TargetBody string   `yaml:"targetBody"`
}

// callerSnapshot/calleeSnapshot flatten icc.CallerInfo/CalleeInfo to
// strings for the summary snapshot.
type callerSnapshot struct {
	Method string `yaml:"method"`
	Detail string `yaml:"detail,omitempty"`
}

type calleeSnapshot struct {
	Method string `yaml:"method"`
	Detail string `yaml:"detail,omitempty"`
}

type componentSnapshot struct {
	Name     string                      `yaml:"name"`
	Channels map[string]channelSnapshot `yaml:"channels"`
}

type channelSnapshot struct {
	Callers []callerSnapshot `yaml:"callers,omitempty"`
	Callees []calleeSnapshot `yaml:"callees,omitempty"`
}

// Snapshot is a YAML dump of a batch of emitted CallPaths plus the final
// ComponentSummaryTable, suitable for diagnostics or golden-file tests. It
// mirrors the yaml-tagged-struct style used throughout the teacher's
// analyzer/linage package.
type Snapshot struct {
	Paths      []pathSnapshot      `yaml:"paths,omitempty"`
	Components []componentSnapshot `yaml:"components,omitempty"`
}

// NewSnapshot flattens paths and the summary table into a serializable
// Snapshot.
func NewSnapshot(paths []traverse.CallPath, summaries *icc.SummaryTable) *Snapshot {
	s := &Snapshot{}
	for _, p := range paths {
		s.Paths = append(s.Paths, flattenPath(p))
	}
	if summaries != nil {
		for _, c := range summaries.Components() {
			s.Components = append(s.Components, flattenComponent(c))
		}
	}
	return s
}

func flattenPath(p traverse.CallPath) pathSnapshot {
	ps := pathSnapshot{RunID: p.RunID}
	for _, e := range p.Edges {
		ps.Edges = append(ps.Edges, edgeLabel(e))
	}
	if p.TargetUnit != nil {
		ps.TargetUnit = p.TargetUnit.Index
		if body := p.TargetUnit.Body(); body != nil && body.Method != nil {
			ps.TargetBody = body.Method.Ref().String()
		}
	}
	return ps
}

func edgeLabel(e *ir.Edge) string {
	caller, callee := "?", "?"
	if e.Caller != nil {
		caller = e.Caller.Ref().String()
	}
	if e.Callee != nil {
		callee = e.Callee.Ref().String()
	}
	return caller + " -[" + string(e.Kind) + "]-> " + callee
}

func flattenComponent(c *icc.ComponentSummary) componentSnapshot {
	cs := componentSnapshot{Name: c.Name, Channels: map[string]channelSnapshot{}}
	for _, ch := range []icc.Channel{icc.ChannelICC, icc.ChannelRPC, icc.ChannelStorage, icc.ChannelStatic} {
		callers := c.Callers(ch)
		callees := c.Callees(ch)
		if len(callers) == 0 && len(callees) == 0 {
			continue
		}
		var chSnap channelSnapshot
		for _, caller := range callers {
			chSnap.Callers = append(chSnap.Callers, callerSnapshot{Method: caller.Method().Ref().String()})
		}
		for _, callee := range callees {
			chSnap.Callees = append(chSnap.Callees, calleeSnapshot{Method: callee.Method().Ref().String()})
		}
		cs.Channels[string(ch)] = chSnap
	}
	return cs
}

// Marshal renders the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
