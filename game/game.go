package game

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"tanks/client"
	"tanks/world"
)

// ErrQuit is returned from Update when the player asks to leave.
var ErrQuit = errors.New("quit")

var _ client.Presenter = (*Game)(nil)

// Game draws the local tank and every remote tank the tracker has announced.
// Remote tanks are added, captured and removed from tracker goroutines, so they
// live behind mu; the local tank belongs to the ebiten loop.
type Game struct {
	*Assets
	renderer *Renderer
	player   *LocalPlayer
	fallback world.PlayerState
	width    int
	height   int

	mu      sync.Mutex
	remotes map[int64]*Player
}

func NewGame(assets *Assets, player *LocalPlayer, fallback world.PlayerState, width, height int) *Game {
	return &Game{
		Assets:   assets,
		renderer: NewRenderer(),
		player:   player,
		fallback: fallback,
		width:    width,
		height:   height,
		remotes:  make(map[int64]*Player),
	}
}

func (g *Game) AddRemote(ID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.remotes[ID]; ok {
		return
	}
	g.remotes[ID] = NewRemotePlayer(ID, g.fallback)
}

// CaptureRemote may arrive after RemoveRemote for the same ID; it is ignored then.
func (g *Game) CaptureRemote(ID int64, state world.PlayerState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.remotes[ID]; ok {
		p.Capture(state)
	}
}

func (g *Game) RemoveRemote(ID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.remotes, ID)
	g.renderer.Forget(ID)
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ErrQuit
	}
	g.player.OnKeysPressed()

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.remotes {
		// Coast between captures on the last known heading and speed.
		p.Update()
	}
	return nil
}

func (g *Game) debugString() string {
	return strings.Join([]string{
		fmt.Sprintf("Version: %s, TPS: %0.02f, FPS: %0.02f", strings.TrimSpace(Version), ebiten.CurrentTPS(), ebiten.CurrentFPS()),
		fmt.Sprintf("Remote tanks: %d", len(g.remotes)),
	}, "\n")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{
		164,
		178,
		191,
		255,
	})

	g.mu.Lock()
	defer g.mu.Unlock()
	IDs := make([]int64, 0, len(g.remotes))
	for ID := range g.remotes {
		IDs = append(IDs, ID)
	}
	sort.Slice(IDs, func(i, j int) bool { return IDs[i] < IDs[j] })

	image := g.Image("tank")
	for _, ID := range IDs {
		g.renderer.RenderTank(screen, image, g.remotes[ID], true)
	}
	g.renderer.RenderTank(screen, image, &g.player.Player, false)
	ebitenutil.DebugPrint(screen, g.debugString())
	g.renderer.FinishFrame()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}
