// Package gate is the terminal accept/reject decision point for generated
// scene source. It is the single authority on syntactic validity: nothing
// reaches the render driver without passing through Check, and no upstream
// stage may bypass it.
package gate

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/duskmoor/mathcast/internal/sanitize"
)

// Status is the terminal disposition of a pipeline run.
type Status string

const (
	StatusAdmitted Status = "admitted"
	StatusRejected Status = "rejected"
)

// Result is the pipeline's terminal value. Exactly one of the two statuses
// is set; a Rejected result carries the reason and the last known defects.
type Result struct {
	Status  Status
	Source  sanitize.Source
	Reason  string
	Defects []sanitize.Defect
}

// Admitted reports whether the source may be handed to the render driver.
func (r Result) Admitted() bool {
	return r.Status == StatusAdmitted
}

// Gate parses candidate source with the Python grammar and applies the
// two-attempt admission protocol.
type Gate struct {
	lang *tree_sitter.Language
}

// New creates a Gate with the Python grammar loaded.
func New() *Gate {
	return &Gate{
		lang: tree_sitter.NewLanguage(tree_sitter_python.Language()),
	}
}

// Check attempts a syntax-only parse of src. On a parse failure it invokes
// the emergency repair pass exactly once and retries the parse exactly once;
// a second failure is a terminal rejection carrying the parser diagnostic.
// The two-attempt ceiling is a hard bound.
func (g *Gate) Check(src sanitize.Source) Result {
	current := src
	for attempt := 1; ; attempt++ {
		diag, ok := g.parse(current)
		if ok {
			if missing := missingEntryConstruct(g, current); missing != "" {
				return Result{
					Status: StatusRejected,
					Source: current,
					Reason: missing,
				}
			}
			return Result{Status: StatusAdmitted, Source: current}
		}
		if attempt >= 2 {
			return Result{
				Status: StatusRejected,
				Source: current,
				Reason: diag,
			}
		}
		current = sanitize.Repair(current)
	}
}

// parse runs a syntax-only parse and returns a diagnostic describing the
// first error when the tree is not well formed.
func (g *Gate) parse(src sanitize.Source) (diag string, ok bool) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(g.lang); err != nil {
		return fmt.Sprintf("gate: set language: %v", err), false
	}

	tree := parser.Parse([]byte(src.Text()), nil)
	if tree == nil {
		return "gate: parser returned no tree", false
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return "", true
	}
	return describeSyntaxError(root), false
}

// describeSyntaxError walks the tree to the first ERROR or missing node and
// reports its location.
func describeSyntaxError(root *tree_sitter.Node) string {
	node := findErrorNode(root)
	if node == nil {
		return "syntax error"
	}
	pos := node.StartPosition()
	if node.IsMissing() {
		return fmt.Sprintf("syntax error at line %d: missing %s", pos.Row+1, node.Kind())
	}
	return fmt.Sprintf("syntax error at line %d, column %d", pos.Row+1, pos.Column+1)
}

// findErrorNode returns the first node in document order that is an error or
// missing node, or nil when none exists.
func findErrorNode(node *tree_sitter.Node) *tree_sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if found := findErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}
