package viz

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/partikle/internal/forces"
	"github.com/san-kum/partikle/internal/sim"
)

const (
	playerWidth  = 80
	playerHeight = 24
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Player replays a recorded trajectory in the terminal with play, pause
// and scrubbing. The energy series is precomputed once from the snapshots.
type Player struct {
	trajectory sim.Trajectory
	field      *forces.Field
	canvas     *Canvas
	camera     *Camera

	frame   int
	playing bool
	fps     int
	energy  []float64
}

func NewPlayer(tr sim.Trajectory, field *forces.Field, fps int) *Player {
	if fps <= 0 {
		fps = 30
	}

	energy := make([]float64, len(tr))
	for i, snap := range tr {
		energy[i] = field.Energy(snap.Ensemble)
	}

	p := &Player{
		trajectory: tr,
		field:      field,
		canvas:     NewCanvas(playerWidth, playerHeight),
		playing:    true,
		fps:        fps,
		energy:     energy,
	}
	if len(tr) > 0 && tr[0].Ensemble.Dim == 3 {
		extent := 0.0
		for _, v := range tr[0].Ensemble.Positions {
			if v > extent {
				extent = v
			} else if -v > extent {
				extent = -v
			}
		}
		if extent == 0 {
			extent = 1
		}
		p.camera = NewCamera(extent * 3)
	}
	return p
}

// Run blocks until the player is quit.
func (p *Player) Run() error {
	_, err := tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}

func (p *Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (p *Player) Init() tea.Cmd {
	return p.tick()
}

func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ":
			p.playing = !p.playing
		case "left", "h":
			p.playing = false
			p.frame = max(0, p.frame-1)
		case "right", "l":
			p.playing = false
			p.frame = min(len(p.trajectory)-1, p.frame+1)
		case "0":
			p.frame = 0
		case "G":
			p.frame = len(p.trajectory) - 1
		case "+":
			if p.camera != nil {
				p.camera.Orbit(0.1)
			}
		case "-":
			if p.camera != nil {
				p.camera.Orbit(-0.1)
			}
		}
	case tickMsg:
		if p.playing {
			p.frame++
			if p.frame >= len(p.trajectory) {
				p.frame = 0
			}
		}
		return p, p.tick()
	}
	return p, nil
}

func (p *Player) View() string {
	if len(p.trajectory) == 0 {
		return "no trajectory\n"
	}

	snap := p.trajectory[p.frame]
	if p.camera != nil {
		p.camera.RenderFrame3D(p.canvas, snap.Ensemble)
	} else {
		RenderFrame(p.canvas, snap.Ensemble, FitViewport(snap.Ensemble))
	}

	status := "paused"
	if p.playing {
		status = "playing"
	}

	stats := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("partikle playback"),
		labelStyle.Render("frame")+valueStyle.Render(fmt.Sprintf("%d / %d", p.frame+1, len(p.trajectory))),
		labelStyle.Render("time")+valueStyle.Render(fmt.Sprintf("%.4f", snap.Time)),
		labelStyle.Render("particles")+valueStyle.Render(fmt.Sprintf("%d", snap.Ensemble.N)),
		labelStyle.Render("energy")+valueStyle.Render(fmt.Sprintf("%.6g", p.energy[p.frame])),
		labelStyle.Render("status")+valueStyle.Render(status),
	)

	graph := ""
	if len(p.energy) > 1 {
		upto := p.energy[:p.frame+1]
		if len(upto) > playerWidth-10 {
			upto = upto[len(upto)-(playerWidth-10):]
		}
		if len(upto) > 1 {
			graph = graphStyle.Render(asciigraph.Plot(upto,
				asciigraph.Height(5),
				asciigraph.Caption("total energy"),
			))
		}
	}

	help := helpStyle.Render("space play/pause · ←/→ step · 0/G ends · +/- orbit · q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		canvasStyle.Render(p.canvas.String()),
		stats,
		graph,
		help,
	)
}
