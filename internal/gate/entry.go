package gate

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/duskmoor/mathcast/internal/sanitize"
)

// entryMethod is the method name the render driver invokes on a scene class.
const entryMethod = "construct"

// missingEntryConstruct checks that the source defines at least one class
// with a construct method. It returns an empty string when the entry
// construct exists, or a diagnostic naming what is missing.
func missingEntryConstruct(g *Gate, src sanitize.Source) string {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(g.lang); err != nil {
		return "gate: set language: " + err.Error()
	}

	source := []byte(src.Text())
	tree := parser.Parse(source, nil)
	if tree == nil {
		return "gate: parser returned no tree"
	}
	defer tree.Close()

	if sceneClassWithConstruct(tree.RootNode(), source) {
		return ""
	}
	return "no scene class with a construct method defined"
}

// sceneClassWithConstruct walks the module looking for a class definition
// that contains a function named after the entry method.
func sceneClassWithConstruct(root *tree_sitter.Node, source []byte) bool {
	for i := uint(0); i < root.ChildCount(); i++ {
		node := root.Child(i)
		if node == nil {
			continue
		}
		// Decorated classes wrap the class_definition one level down.
		if node.Kind() == "decorated_definition" {
			for j := uint(0); j < node.ChildCount(); j++ {
				if child := node.Child(j); child != nil && child.Kind() == "class_definition" {
					node = child
					break
				}
			}
		}
		if node.Kind() != "class_definition" {
			continue
		}
		if classHasMethod(node, source, entryMethod) {
			return true
		}
	}
	return false
}

func classHasMethod(class *tree_sitter.Node, source []byte, name string) bool {
	body := class.ChildByFieldName("body")
	if body == nil {
		return false
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		node := body.Child(i)
		if node == nil {
			continue
		}
		if node.Kind() == "decorated_definition" {
			for j := uint(0); j < node.ChildCount(); j++ {
				if child := node.Child(j); child != nil && child.Kind() == "function_definition" {
					node = child
					break
				}
			}
		}
		if node.Kind() != "function_definition" {
			continue
		}
		nameNode := node.ChildByFieldName("name")
		if nameNode != nil && nameNode.Utf8Text(source) == name {
			return true
		}
	}
	return false
}
