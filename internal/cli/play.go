package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardtable/pkg/geom"
	"github.com/matzehuels/cardtable/pkg/pipeline"
	"github.com/matzehuels/cardtable/pkg/scene"
)

const (
	frameInterval = time.Second / 30
	seekStep      = 250 * time.Millisecond
	minSpeed      = 0.125
	maxSpeed      = 8
)

// Cell markers returned by rasterize besides card indices.
const (
	cellEmpty = -1
	cellArea  = -2
)

var (
	cardColors = []lipgloss.Color{
		lipgloss.Color("36"),
		lipgloss.Color("75"),
		lipgloss.Color("220"),
		lipgloss.Color("167"),
		lipgloss.Color("35"),
		lipgloss.Color("141"),
	}
	playAreaStyle   = lipgloss.NewStyle().Foreground(colorDim)
	playStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// playCommand creates the play command that animates a deal in the terminal.
func (c *CLI) playCommand() *cobra.Command {
	var (
		table tableFlags
		speed float64
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a deal in the terminal",
		Long: `Deal the cards and play the animation in the terminal in real time.

Keys: space pause, ←/→ seek, +/- speed, r restart, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := table.options(cmd)
			if err != nil {
				return err
			}
			if speed < minSpeed || speed > maxSpeed {
				return fmt.Errorf("speed must be between %g and %g, got %g", minSpeed, float64(maxSpeed), speed)
			}
			return c.runPlay(cmd.Context(), opts, table.noCache, speed)
		},
	}

	table.register(cmd)
	cmd.Flags().Float64Var(&speed, "speed", 1, "playback speed")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, opts pipeline.Options, noCache bool, speed float64) error {
	opts.Logger = c.Logger
	opts.SetDefaults()

	runner := c.newRunner(ctx, opts.Cache, noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Dealing %d cards...", opts.Cards))
	spinner.Start()
	l, err := runner.Layout(ctx, opts)
	if err != nil {
		spinner.Stop()
		return err
	}
	spinner.SetMessage("Building animation...")
	a, err := runner.Animate(ctx, opts, l)
	spinner.Stop()
	if err != nil {
		return err
	}

	viewport := opts.Viewport
	if opts.Resize != nil {
		viewport = viewport.Max(*opts.Resize)
	}
	m := newPlayModel(a.Scene, viewport, speed)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// playModel - real-time scene playback
// =============================================================================

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// playModel samples the recorded scene at the playback time. The scene is
// fully recorded before the program starts so seeking is free.
type playModel struct {
	scene    *scene.Scene
	viewport geom.Vector
	labels   []rune
	end      time.Duration

	t      time.Duration
	speed  float64
	paused bool
	last   time.Time

	width, height int
}

func newPlayModel(s *scene.Scene, viewport geom.Vector, speed float64) playModel {
	labels := make([]rune, s.Len())
	for i, c := range s.Cards() {
		if c.Label != "" {
			labels[i] = []rune(c.Label)[0]
		}
	}
	return playModel{
		scene:    s,
		viewport: viewport,
		labels:   labels,
		end:      s.Duration(),
		speed:    speed,
		width:    80,
		height:   24,
	}
}

func (m playModel) Init() tea.Cmd {
	return nextFrame()
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			m.paused = !m.paused
		case "r":
			m.t = 0
			m.paused = false
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, minSpeed)
		case "left", "h":
			m.t = max(m.t-seekStep, 0)
		case "right", "l":
			m.t = min(m.t+seekStep, m.end)
		}
	case frameMsg:
		now := time.Time(msg)
		if !m.paused && !m.last.IsZero() {
			m.t = min(m.t+time.Duration(float64(now.Sub(m.last))*m.speed), m.end)
		}
		m.last = now
		return m, nextFrame()
	}
	return m, nil
}

func (m playModel) View() string {
	cols, rows := m.width, m.height-2
	if cols <= 0 || rows <= 0 {
		return ""
	}

	var area *geom.Rect
	if r, ok := m.scene.DealArea(); ok {
		area = &r
	}
	states := m.scene.At(m.t)
	cells := rasterize(states, m.viewport, area, cols, rows)
	glyphs := m.labelGlyphs(states, cells)

	var b strings.Builder
	for y, row := range cells {
		for x := 0; x < len(row); {
			if g := glyphs[[2]int{x, y}]; g != 0 {
				b.WriteString(m.cardStyle(row[x]).Render(string(g)))
				x++
				continue
			}
			// Runs of equal cells share one style call.
			run := x + 1
			for run < len(row) && row[run] == row[x] && glyphs[[2]int{run, y}] == 0 {
				run++
			}
			b.WriteString(m.renderRun(row[x], run-x))
			x = run
		}
		b.WriteByte('\n')
	}

	status := fmt.Sprintf("%s / %s  %gx", fmtClock(m.t), fmtClock(m.end), m.speed)
	if m.paused {
		status += "  paused"
	}
	b.WriteString("\n" + StyleTitle.Render(appName) + " " + playStatusStyle.Render(status) +
		StyleDim.Render("  space pause · ←/→ seek · +/- speed · r restart · q quit"))
	return b.String()
}

// labelGlyphs places each labelled card's initial on the cell under its
// centre when the card is visible there.
func (m playModel) labelGlyphs(states []scene.State, cells [][]int) map[[2]int]rune {
	out := make(map[[2]int]rune)
	for i, s := range states {
		if m.labels[i] == 0 {
			continue
		}
		x, y, ok := cellAt(s.Position, m.viewport, len(cells[0]), len(cells))
		if ok && cells[y][x] == i {
			out[[2]int{x, y}] = m.labels[i]
		}
	}
	return out
}

func (m playModel) renderRun(cell, n int) string {
	switch cell {
	case cellEmpty:
		return strings.Repeat(" ", n)
	case cellArea:
		return playAreaStyle.Render(strings.Repeat("·", n))
	default:
		return m.cardStyle(cell).Render(strings.Repeat(" ", n))
	}
}

func (m playModel) cardStyle(i int) lipgloss.Style {
	c := cardColors[i%len(cardColors)]
	return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(c)
}

// rasterize samples the scene on a cols×rows character grid covering the
// viewport. Each cell holds the index of the topmost card over its centre,
// cellArea inside the uncovered deal area, or cellEmpty.
func rasterize(states []scene.State, viewport geom.Vector, area *geom.Rect, cols, rows int) [][]int {
	rects := make([]geom.Rect, len(states))
	for i, s := range states {
		rects[i] = s.Rect()
	}
	cell := geom.Vec(viewport.X/float64(cols), viewport.Y/float64(rows))

	out := make([][]int, rows)
	for y := range out {
		out[y] = make([]int, cols)
		for x := range out[y] {
			p := geom.Vec((float64(x)+0.5)*cell.X, (float64(y)+0.5)*cell.Y)
			out[y][x] = cellEmpty
			if area != nil && area.ContainsPoint(p) {
				out[y][x] = cellArea
			}
			// Later cards are drawn on top.
			for i := len(rects) - 1; i >= 0; i-- {
				if rects[i].ContainsPoint(p) {
					out[y][x] = i
					break
				}
			}
		}
	}
	return out
}

// cellAt returns the grid cell containing p.
func cellAt(p, viewport geom.Vector, cols, rows int) (x, y int, ok bool) {
	x = int(p.X / viewport.X * float64(cols))
	y = int(p.Y / viewport.Y * float64(rows))
	return x, y, p.X >= 0 && p.Y >= 0 && x < cols && y < rows
}

func fmtClock(d time.Duration) string {
	return fmt.Sprintf("%5.2fs", d.Seconds())
}
