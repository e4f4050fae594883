package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/errors"
	"github.com/matzehuels/trackgraph/pkg/graph"
	"github.com/matzehuels/trackgraph/pkg/pipeline"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

	classStyles = map[graph.Class]lipgloss.Style{
		graph.ClassFront:    lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		graph.ClassEnqueued: lipgloss.NewStyle().Foreground(colorBlue),
		graph.ClassVisited:  lipgloss.NewStyle().Foreground(colorGreen),
		graph.ClassBoth:     lipgloss.NewStyle().Foreground(colorCyan),
	}
)

// stepCommand creates the interactive stepper.
func (c *CLI) stepCommand() *cobra.Command {
	var search searchFlags

	cmd := &cobra.Command{
		Use:   "step [board.toml]",
		Short: "Walk through a corporation's search one step at a time",
		Long: `Step opens an interactive view of the breadth-first search. Move forward
and back through the steps, jump to a step number, or reset the search.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStep(cmd.Context(), args[0], search.options())
		},
	}
	search.registerCorp(cmd)
	search.register(cmd)
	return cmd
}

func (c *CLI) runStep(ctx context.Context, path string, opts pipeline.Options) error {
	b, err := loadBoard(path)
	if err != nil {
		return err
	}
	opts.Logger = loggerFromContext(ctx)
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, ok := b.Corporation(board.CorpID(opts.Corporation)); !ok {
		return errors.New(errors.ErrCodeCorporationNotFound, "unknown corporation: %s", opts.Corporation)
	}

	// The TUI owns the terminal; keep search logs quiet while it runs.
	gopts := opts.GraphOptions(true)
	gopts.Logger = nil
	g := graph.New(b, b, board.CorpID(opts.Corporation), gopts)

	_, err = tea.NewProgram(newStepModel(b, g), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// StepModel - Interactive search stepper
// =============================================================================

// StepModel is the bubbletea model for stepping through a search.
type StepModel struct {
	Board  *board.Board
	Graph  *graph.Graph
	Jump   string // digits typed for a jump
	Height int
}

func newStepModel(b *board.Board, g *graph.Graph) StepModel {
	return StepModel{Board: b, Graph: g, Height: 12}
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", " ":
			m.Graph.Advance()
		case "left", "h", "p":
			m.Graph.Reverse()
		case "e", "end":
			m.Graph.AdvanceToEnd()
		case "r", "home":
			m.Graph.Reset()
		case "backspace":
			if m.Jump != "" {
				m.Jump = m.Jump[:len(m.Jump)-1]
			}
		case "enter":
			if n, err := strconv.Atoi(m.Jump); err == nil {
				m.Graph.JumpTo(n)
			}
			m.Jump = ""
		default:
			if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.Jump) < 6 {
				m.Jump += key
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m StepModel) View() string {
	var b strings.Builder
	g := m.Graph

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · step %d · %s", g.Corporation(), g.Step(), g.State())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("→ advance  ← reverse  e end  r reset  0-9⏎ jump  q quit"))
	if m.Jump != "" {
		b.WriteString("  " + StyleHighlight.Render("jump to "+m.Jump))
	}
	b.WriteString("\n\n")

	route := g.RouteInfo()
	b.WriteString(fmt.Sprintf("route %s  train %s  reached %d  queued %d\n\n",
		yesNo(route.Available), yesNo(route.TrainPurchase), g.NumReached(), g.QueueLen()))

	pending := g.Pending()
	rows := make([][]string, 0, min(len(pending), m.Height))
	for i, it := range pending {
		if i == m.Height {
			break
		}
		class := g.Classify(it.Atom)
		rows = append(rows, []string{
			strconv.Itoa(i),
			atomLabel(m.Board, it.Atom),
			m.Board.HexName(it.Atom.Hex(m.Board)),
			it.From.String(),
			class.String(),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Atom", "Hex", "From", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(pending) {
				if s, ok := classStyles[g.Classify(pending[row].Atom)]; ok {
					return s
				}
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if extra := len(pending) - len(rows); extra > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more queued", extra)))
		b.WriteString("\n")
	}

	reached := make([]string, g.NumReached())
	for i := range reached {
		reached[i] = atomLabel(m.Board, graph.NodeAtom(g.Reached(i)))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("reached: ") + orNone(strings.Join(reached, ", ")))
	b.WriteString("\n")

	return b.String()
}

// atomLabel names an atom for display.
func atomLabel(b *board.Board, a graph.Atom) string {
	switch a.Kind {
	case graph.AtomNode:
		n := b.Node(a.Node())
		if n.Name != "" {
			return n.Name
		}
		return fmt.Sprintf("%s %s#%d", n.Kind, b.HexName(n.Hex), n.Index)
	case graph.AtomPath:
		p := b.Path(a.Path())
		return fmt.Sprintf("path %s-%s", p.A, p.B)
	}
	return a.String()
}
