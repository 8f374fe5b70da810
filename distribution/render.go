package distribution

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	rootStyle  = lipgloss.NewStyle().Bold(true)
	itemStyle  = lipgloss.NewStyle()
	enumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginRight(1)
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
)

// Render draws the hierarchy with each node's label and assigned quantity.
func (t *Tree) Render() string {
	return t.branch(0).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle).
		RootStyle(rootStyle).
		ItemStyle(itemStyle).
		String()
}

func (t *Tree) branch(idx int) *tree.Tree {
	b := tree.Root(t.caption(idx))
	for _, c := range t.nodes[idx].children {
		if len(t.nodes[c].children) == 0 {
			b.Child(t.caption(c))
			continue
		}
		b.Child(t.branch(c))
	}

	return b
}

func (t *Tree) caption(idx int) string {
	n := t.nodes[idx]
	return fmt.Sprintf("%s %s", n.label, countStyle.Render(fmt.Sprintf("(%d)", n.quantity)))
}

// Report lists every leaf with its quantity and share of the total.
func (t *Tree) Report() string {
	var b strings.Builder
	root := t.nodes[0]
	fmt.Fprintf(&b, "Distribution from %s: %d units\n", root.label, t.total)
	for _, leaf := range t.Leaves() {
		var pct float64
		if t.total > 0 {
			pct = float64(leaf.Quantity) / float64(t.total) * 100
		}
		fmt.Fprintf(&b, "  %-20s %8d  %5.1f%%\n", leaf.Label, leaf.Quantity, pct)
	}
	fmt.Fprintf(&b, "Assigned to leaves: %d\n", t.TotalAssignedToLeaves())

	return b.String()
}
