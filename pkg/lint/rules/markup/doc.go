// Package markup contains the rules for XML data files.
package markup

import "github.com/leapstack-labs/modlint/pkg/lint"

const group = "odoolint"

// recordTags are the elements that declare an XML id.
var recordTags = map[string]bool{
	"record":     true,
	"template":   true,
	"menuitem":   true,
	"act_window": true,
	"report":     true,
}

// records returns every id-declaring element of the document.
func records(tree *lint.MarkupTree) []*lint.Node {
	var out []*lint.Node
	tree.Root.Walk(func(n *lint.Node) bool {
		if recordTags[n.Name] {
			out = append(out, n)
			// Records do not nest; arch content is not a record.
			return false
		}
		return true
	})
	return out
}
