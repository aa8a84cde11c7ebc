package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
)

var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// treeRow is one visible line of the browser: a tree node plus its depth and
// expansion state.
type treeRow struct {
	node     *resolve.TreeNode
	depth    int
	expanded bool
}

// treeModel is the bubbletea model for the interactive dependency-tree
// browser. Rows are recomputed from the expansion set after every toggle.
// The root is held by pointer so node identities stay stable across the
// value copies bubbletea makes of the model.
type treeModel struct {
	root     *resolve.TreeNode
	expanded map[*resolve.TreeNode]bool
	rows     []treeRow
	cursor   int
	height   int
	offset   int
}

// newTreeModel creates a browser with the root expanded one level.
func newTreeModel(root resolve.TreeNode) treeModel {
	m := treeModel{
		root:     &root,
		expanded: make(map[*resolve.TreeNode]bool),
		height:   20,
	}
	m.expanded[m.root] = true
	m.reflow()
	return m
}

// reflow rebuilds the visible rows from the expansion state.
func (m *treeModel) reflow() {
	m.rows = m.rows[:0]
	var walk func(n *resolve.TreeNode, depth int)
	walk = func(n *resolve.TreeNode, depth int) {
		m.rows = append(m.rows, treeRow{node: n, depth: depth, expanded: m.expanded[n]})
		if !m.expanded[n] {
			return
		}
		for i := range n.Children {
			walk(&n.Children[i], depth+1)
		}
	}
	walk(m.root, 0)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 2
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter", " ", "right", "l":
			node := m.rows[m.cursor].node
			if len(node.Children) > 0 {
				m.expanded[node] = !m.expanded[node]
				m.reflow()
			}
		case "left", "h":
			node := m.rows[m.cursor].node
			if m.expanded[node] {
				m.expanded[node] = false
				m.reflow()
			}
		}
	}
	return m, nil
}

func (m treeModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Dependencies of "+m.root.ModuleName) + "\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		marker := "  "
		if len(row.node.Children) > 0 {
			if row.expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		label := row.node.ModuleName
		if row.node.Version != "" {
			label += " v" + row.node.Version
		}
		if row.node.Type != "" {
			label += " [" + string(row.node.Type) + "]"
		}
		switch {
		case row.node.Missing:
			label += " (missing)"
		case row.node.Cyclic:
			label += " (cycle)"
		}

		line := strings.Repeat("  ", row.depth) + marker + label
		switch {
		case i == m.cursor:
			line = treeSelectedStyle.Render("> " + line)
		case row.node.Missing || row.node.Cyclic:
			line = treeDimStyle.Render("  " + line)
		default:
			line = treeNormalStyle.Render("  " + line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(treeDimStyle.Render(fmt.Sprintf("\n%d nodes · ↑/↓ move · enter expand · q quit", len(m.rows))))
	return b.String()
}
