package game

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"tanks/world"
)

type Player struct {
	*world.Tank
	ID int64
	// applied is the timestamp of the last captured state.
	applied int64
}

// Capture moves a remote tank to state unless it has already been applied.
func (p *Player) Capture(state world.PlayerState) {
	if state.Timestamp == p.applied {
		return
	}
	p.applied = state.Timestamp
	p.Apply(state)
}

type LocalPlayer struct {
	Player

	mu    sync.Mutex
	state world.PlayerState
}

func NewLocalPlayer(ID int64, x, y float32, c world.Color, bounds world.Bounds) *LocalPlayer {
	tank := world.NewTank(x, y, c)
	tank.Bounds = bounds
	p := &LocalPlayer{
		Player: Player{
			Tank: tank,
			ID:   ID,
		},
	}
	p.state = tank.State(ID, 0)
	return p
}

// NewRemotePlayer starts at the cache fallback until its first capture lands.
func NewRemotePlayer(ID int64, fallback world.PlayerState) *Player {
	p := &Player{
		Tank: world.NewTank(fallback.X, fallback.Y, fallback.Color),
		ID:   ID,
	}
	return p
}

func anyPressed(keys ...ebiten.Key) bool {
	for _, key := range keys {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}

// OnKeysPressed steers from the keyboard and advances the tank one tick.
func (p *LocalPlayer) OnKeysPressed() {
	p.Steer(world.SteeringFor(
		anyPressed(ebiten.KeyA, ebiten.KeyArrowLeft, ebiten.KeyNumpad4),
		anyPressed(ebiten.KeyD, ebiten.KeyArrowRight, ebiten.KeyNumpad6),
		anyPressed(ebiten.KeyW, ebiten.KeyArrowUp, ebiten.KeyNumpad8),
		anyPressed(ebiten.KeyS, ebiten.KeyArrowDown, ebiten.KeyNumpad2),
	))
	p.Update()

	p.mu.Lock()
	p.state = p.Tank.State(p.ID, 0)
	p.mu.Unlock()
}

// State is the pose as of the last tick, safe to call from the exchange goroutine.
func (p *LocalPlayer) State() world.PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
