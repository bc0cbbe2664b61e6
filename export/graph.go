// Package export implements the GraphExporter pattern grounded on the
// teacher's analyzer/graph_exporter.go: a normalized node/edge view of the
// patched call graph that can be sent to an external store, plus a YAML
// snapshot of traversal output for diagnostics and golden-file tests.
package export

import (
	"fmt"

	"github.com/pathsentinel/icc/ir"
)

// Node is one exported call-graph node: a method, identified the same way
// the teacher normalizes identifiers across services/languages.
type Node struct {
	ID         string
	Class      string
	Name       string
	Origin     string
	Properties map[string]interface{}
}

// Edge is one exported call-graph edge.
type Edge struct {
	Source     string
	Target     string
	Kind       string
	Properties map[string]interface{}
}

// Graph holds the exported nodes and edges, mirroring the teacher's IRGraph
// shape.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// GraphExporter sends an exported Graph to a storage backend, matching the
// teacher's Export(graph *IRGraph) error contract.
type GraphExporter interface {
	Export(graph *Graph) error
}

// normalizeID builds a stable node ID from a method's declaring class and
// subsignature, the same (class, subsignature) identity Class.Method uses
// for lookup.
func normalizeID(m *ir.Method) string {
	return fmt.Sprintf("%s#%s", m.Ref().Class, m.Ref().Subsignature())
}

// BuildGraph walks scene's application classes and call graph, producing
// one Node per declared method and one Edge per call-graph edge reachable
// from those methods.
func BuildGraph(scene ir.IRProvider) *Graph {
	g := &Graph{}
	seen := map[*ir.Method]bool{}

	for _, cls := range scene.ApplicationClasses() {
		for _, m := range cls.Methods() {
			if seen[m] {
				continue
			}
			seen[m] = true
			g.Nodes = append(g.Nodes, Node{
				ID:     normalizeID(m),
				Class:  cls.Name,
				Name:   m.Name,
				Origin: string(cls.Origin),
				Properties: map[string]interface{}{
					"returnType": m.ReturnType,
					"hasBody":    m.HasBody(),
				},
			})
			for _, e := range scene.CallGraph().EdgesOutOf(m) {
				if e.Callee == nil {
					continue
				}
				props := map[string]interface{}{}
				if e.Src != nil {
					props["srcStmt"] = e.Src.Index
				}
				g.Edges = append(g.Edges, Edge{
					Source:     normalizeID(m),
					Target:     normalizeID(e.Callee),
					Kind:       string(e.Kind),
					Properties: props,
				})
			}
		}
	}
	return g
}
