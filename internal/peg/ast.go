package peg

import (
	"fmt"
	"strings"

	"github.com/dekarrin/grammarkit/internal/perr"
	"github.com/dekarrin/rosed"
)

// AstNode is a named, positioned span of the input with an ordered list of
// children. It is contributed by a Decl production: the matched text of the
// rule's body, wrapped under the rule's name.
type AstNode struct {
	Name     string
	Text     string
	Position perr.Position
	Children []AstNode
}

const (
	treeLevelEmpty      = "        "
	treeLevelOngoing    = "  |     "
	treeLevelPrefix     = "  |%s: "
	treeLevelPrefixLast = `  \%s: `
	treeNamePad         = 3
)

func padName(name string) string {
	for len([]rune(name)) < treeNamePad {
		name = "-" + name
	}
	return name
}

// String returns a prettified, indented representation of the node and its
// descendants suitable for line-by-line comparison. Long leaf text is
// wrapped at 60 columns so deeply nested grammars stay readable.
func (n AstNode) String() string {
	return n.leveledStr("", "")
}

func (n AstNode) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if len(n.Children) == 0 {
		wrapped := rosed.Edit(n.Text).Wrap(60).String()
		sb.WriteString(fmt.Sprintf("(%s %q)", n.Name, wrapped))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", n.Name))
	}

	for i := range n.Children {
		sb.WriteRune('\n')
		var leveledFirst, leveledCont string
		if i+1 < len(n.Children) {
			leveledFirst = contPrefix + fmt.Sprintf(treeLevelPrefix, padName(""))
			leveledCont = contPrefix + treeLevelOngoing
		} else {
			leveledFirst = contPrefix + fmt.Sprintf(treeLevelPrefixLast, padName(""))
			leveledCont = contPrefix + treeLevelEmpty
		}
		sb.WriteString(n.Children[i].leveledStr(leveledFirst, leveledCont))
	}

	return sb.String()
}

// AstResult is the value returned by every Production evaluation: a success
// flag and an ordered list of AstNodes. A successful result may carry zero
// nodes (as with UnreportedDecl) or more than one (as with Sequence or an
// ExpandedDecl whose body produced several).
type AstResult struct {
	ok    bool
	nodes []AstNode
}

// Success builds a successful AstResult carrying the given nodes, which may
// be empty.
func Success(nodes ...AstNode) AstResult {
	return AstResult{ok: true, nodes: nodes}
}

// Failure builds a failed AstResult. A failed result never carries nodes.
func Failure() AstResult {
	return AstResult{}
}

// Ok reports whether the evaluation that produced this result succeeded.
func (r AstResult) Ok() bool {
	return r.ok
}

// Nodes returns the ordered AstNodes this result carries.
func (r AstResult) Nodes() []AstNode {
	return r.nodes
}

// Combine returns a new AstResult with other's nodes appended after r's.
// Both results' success flags are otherwise ignored; Combine is used while
// assembling a Sequence, where every member has already been confirmed to
// have succeeded.
func (r AstResult) Combine(other AstResult) AstResult {
	combined := make([]AstNode, 0, len(r.nodes)+len(other.nodes))
	combined = append(combined, r.nodes...)
	combined = append(combined, other.nodes...)
	return AstResult{ok: r.ok, nodes: combined}
}
