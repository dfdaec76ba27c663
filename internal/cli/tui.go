package cli

import (
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/pipeline"
)

var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailNameStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	detailBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// maxDetailFiles caps the file list shown for the selected node.
const maxDetailFiles = 6

// inspectCommand creates the inspect command, a terminal browser for the
// ranks of a laid-out graph.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags layoutFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <graph.json|graph.yaml>",
		Short: "Browse the ranks of a laid-out graph",
		Long: `Browse the ranks of a laid-out graph.

The inspect command lays out the graph (using the cache when possible) and
opens an interactive browser: ←/→ switch rank, ↑/↓ select a node, q quits.
The selected node's position, size and files are shown below the table.

With --plain the ranks are printed as text instead, which suits pipes and CI
logs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], plain, &flags)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print all ranks as text instead of opening the browser")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, plain bool, flags *layoutFlags) error {
	ctx := cmd.Context()

	g, err := readGraph(input, cmd.InOrStdin())
	if err != nil {
		return err
	}
	cfg, runner, err := c.setup(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Relayout(ctx, pipeline.RelayoutRequest{Graph: g, Options: flags.options(cfg)})
	if err != nil {
		return err
	}

	m := NewInspectModel(filepath.Base(input), res)
	if plain {
		m.WritePlain(cmd.OutOrStdout())
		return nil
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

// =============================================================================
// InspectModel - Interactive rank browser
// =============================================================================

// InspectNode is one node as shown by the browser.
type InspectNode struct {
	ID          string
	Label       string
	Description string
	Files       []string
	X, Y        float64
	Width       float64
	Height      float64
}

// InspectModel is the bubbletea model for browsing a layout rank by rank.
type InspectModel struct {
	Title  string
	Ranks  [][]InspectNode
	Rank   int
	Cursor int
	Height int
	Offset int
}

// NewInspectModel groups the nodes of res by rank, each rank sorted by its
// order in the layout.
func NewInspectModel(title string, res *pipeline.Result) InspectModel {
	m := InspectModel{Title: title, Height: 12}
	if res == nil || res.Layout == nil {
		return m
	}

	sizes := make(map[string][2]float64, len(res.Layout.Nodes))
	for _, n := range res.Layout.Nodes {
		sizes[n.ID] = [2]float64{n.Width, n.Height}
	}

	for _, n := range res.Graph.Nodes {
		rank, ok := res.Layout.Ranks[n.ID]
		if !ok {
			continue
		}
		for len(m.Ranks) <= rank {
			m.Ranks = append(m.Ranks, nil)
		}
		in := InspectNode{
			ID:          n.ID,
			Label:       n.DisplayLabel(),
			Description: n.Data.Description,
			Files:       n.Data.Files,
			Width:       sizes[n.ID][0],
			Height:      sizes[n.ID][1],
		}
		if n.Position != nil {
			in.X, in.Y = n.Position.X, n.Position.Y
		}
		m.Ranks[rank] = append(m.Ranks[rank], in)
	}

	orders := res.Layout.Orders
	for _, nodes := range m.Ranks {
		slices.SortFunc(nodes, func(a, b InspectNode) int {
			return cmp.Compare(orders[a.ID], orders[b.ID])
		})
	}
	return m
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Rank > 0 {
				m.selectRank(m.Rank - 1)
			}
		case "right", "l":
			if m.Rank < len(m.Ranks)-1 {
				m.selectRank(m.Rank + 1)
			}
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.current())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-16, 3)
	}
	return m, nil
}

func (m *InspectModel) selectRank(r int) {
	m.Rank = r
	m.Cursor = 0
	m.Offset = 0
}

func (m InspectModel) current() []InspectNode {
	if m.Rank < len(m.Ranks) {
		return m.Ranks[m.Rank]
	}
	return nil
}

// Selected returns the node under the cursor.
func (m InspectModel) Selected() (InspectNode, bool) {
	nodes := m.current()
	if m.Cursor < len(nodes) {
		return nodes[m.Cursor], true
	}
	return InspectNode{}, false
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ rank  ↑/↓ node  q quit"))
	b.WriteString("\n\n")

	if len(m.Ranks) == 0 {
		b.WriteString(listDimStyle.Render("  empty graph"))
		b.WriteString("\n")
		return b.String()
	}

	nodes := m.current()
	b.WriteString(fmt.Sprintf("Rank %s of %d %s\n",
		StyleNumber.Render(fmt.Sprint(m.Rank+1)), len(m.Ranks),
		listDimStyle.Render(fmt.Sprintf("· %d nodes", len(nodes)))))

	end := min(m.Offset+m.Height, len(nodes))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, n.Label, fmt.Sprint(len(n.Files)), formatPoint(n.X, n.Y)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Files", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if sel, ok := m.Selected(); ok {
		b.WriteString(detailBoxStyle.Render(detailView(sel)))
		b.WriteString("\n")
	}
	return b.String()
}

func detailView(n InspectNode) string {
	var b strings.Builder
	b.WriteString(detailNameStyle.Render(n.Label))
	if n.Label != n.ID {
		b.WriteString(" " + listDimStyle.Render(n.ID))
	}
	b.WriteString("\n")
	if n.Description != "" {
		b.WriteString(n.Description + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("at %s, %s", formatPoint(n.X, n.Y), formatSize(n.Width, n.Height))))
	for i, f := range n.Files {
		if i == maxDetailFiles {
			b.WriteString("\n" + listDimStyle.Render(fmt.Sprintf("+%d more", len(n.Files)-maxDetailFiles)))
			break
		}
		b.WriteString("\n  " + f)
	}
	return b.String()
}

// WritePlain prints every rank without styling.
func (m InspectModel) WritePlain(w io.Writer) {
	fmt.Fprintf(w, "%s: %d ranks\n", m.Title, len(m.Ranks))
	for r, nodes := range m.Ranks {
		fmt.Fprintf(w, "rank %d (%d nodes)\n", r, len(nodes))
		for _, n := range nodes {
			fmt.Fprintf(w, "  %-24s %-24s %s %s\n", n.ID, n.Label, formatPoint(n.X, n.Y), formatSize(n.Width, n.Height))
		}
	}
}

func formatPoint(x, y float64) string {
	return fmt.Sprintf("(%g, %g)", x, y)
}

func formatSize(w, h float64) string {
	return fmt.Sprintf("%g×%g", w, h)
}
