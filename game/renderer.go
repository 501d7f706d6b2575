package game

import (
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"tanks/utils"
	"tanks/world"
)

type RenderData struct {
	lastDrawCoords world.Vector
}

type Renderer struct {
	renderData   map[int64]*RenderData
	lastDrawTime time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{
		renderData:   make(map[int64]*RenderData),
		lastDrawTime: time.Now(),
	}
}

// correct eases a drawn coordinate toward target when a capture made it jump.
func correct(last, target, movement, rate float32) float32 {
	if utils.AlmostEqual(float64(last), float64(target), float64(rate)) {
		return target
	}
	if target > last {
		return last + movement
	}
	return last - movement
}

// RenderTank draws p's sprite tinted with its color and rotated to its heading.
func (r *Renderer) RenderTank(screen *ebiten.Image, image *ebiten.Image, p *Player, smooth bool) {
	drawCoords := p.Coords
	renderData, ok := r.renderData[p.ID]
	if !ok {
		renderData = &RenderData{lastDrawCoords: drawCoords}
		r.renderData[p.ID] = renderData
	} else if smooth {
		correctionRate := float32(10)
		movement := float32(math.Min(time.Since(r.lastDrawTime).Seconds()*float64(correctionRate)*world.TicksPerSecond, float64(correctionRate)))
		drawCoords.X = correct(renderData.lastDrawCoords.X, drawCoords.X, movement, correctionRate)
		drawCoords.Y = correct(renderData.lastDrawCoords.Y, drawCoords.Y, movement, correctionRate)
	}
	renderData.lastDrawCoords = drawCoords

	width, height := image.Size()
	opt := &ebiten.DrawImageOptions{}
	opt.GeoM.Translate(-float64(width)/2, -float64(height)/2)
	opt.GeoM.Rotate(-float64(p.Rotation))
	opt.GeoM.Translate(float64(drawCoords.X)+world.TankSize/2, float64(drawCoords.Y)+world.TankSize/2)
	red, green, blue, alpha := p.Color.RGBA()
	opt.ColorM.Scale(float64(red)/0xff, float64(green)/0xff, float64(blue)/0xff, float64(alpha)/0xff)
	opt.Filter = ebiten.FilterLinear
	screen.DrawImage(image, opt)

	debugString := fmt.Sprintf("%d\n(%0.0f,%0.0f)", p.ID, p.Coords.X, p.Coords.Y)
	ebitenutil.DebugPrintAt(screen, debugString, int(drawCoords.X), int(drawCoords.Y)+world.TankSize)
}

func (r *Renderer) Forget(ID int64) {
	delete(r.renderData, ID)
}

// FinishFrame marks the end of a Draw call.
func (r *Renderer) FinishFrame() {
	r.lastDrawTime = time.Now()
}
