package world

import "math"

type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

type SpeedRel int

const (
	SpeedNone SpeedRel = iota
	SpeedForward
	SpeedReverse
	SpeedStop
)

const (
	TicksPerSecond = 60
	TankSize       = 20
	Acceleration   = 0.02
	RotateRate     = math.Pi / 2 / TicksPerSecond
	MaxSpeed       = 2
)

// Tank is the motion model shared by the local tank and the dead-reckoned remote ones.
type Tank struct {
	Coords   Vector
	Velocity Vector
	Rotation float32
	Heading  float32
	Speed    float32
	Color    Color
	Bounds   Bounds

	dir  Direction
	sRel SpeedRel
}

func NewTank(x, y float32, c Color) *Tank {
	return &Tank{
		Coords: Vector{X: x, Y: y},
		Color:  c,
	}
}

func (t *Tank) Steer(dir Direction, sRel SpeedRel) {
	t.dir = dir
	t.sRel = sRel
}

// SteeringFor turns the held movement keys into a steering command. Opposite
// turn keys cancel out; forward and reverse together brake.
func SteeringFor(left, right, up, down bool) (Direction, SpeedRel) {
	dir := DirectionNone
	if left && !right {
		dir = DirectionLeft
	} else if right && !left {
		dir = DirectionRight
	}

	sRel := SpeedNone
	switch {
	case up && down:
		sRel = SpeedStop
	case up:
		sRel = SpeedForward
	case down:
		sRel = SpeedReverse
	}
	return dir, sRel
}

func (t *Tank) rotate() {
	switch t.dir {
	case DirectionLeft:
		t.Rotation += RotateRate
	case DirectionRight:
		t.Rotation -= RotateRate
	}
}

func (t *Tank) changeVelocity() {
	switch t.dir {
	case DirectionLeft:
		t.Heading += RotateRate
	case DirectionRight:
		t.Heading -= RotateRate
	}

	switch t.sRel {
	case SpeedForward:
		t.Speed += Acceleration
	case SpeedReverse:
		t.Speed -= Acceleration
	case SpeedStop:
		if t.Speed > 0 {
			t.Speed = float32(math.Max(float64(t.Speed-Acceleration), 0))
		} else {
			t.Speed = float32(math.Min(float64(t.Speed+Acceleration), 0))
		}
	}

	if t.Speed > MaxSpeed {
		t.Speed = MaxSpeed
	} else if -t.Speed > MaxSpeed {
		t.Speed = -MaxSpeed
	}

	t.Velocity = Vector{
		X: float32(math.Sin(float64(t.Heading))) * t.Speed,
		Y: float32(math.Cos(float64(t.Heading))) * t.Speed,
	}
}

// Update advances the tank one tick.
func (t *Tank) Update() {
	t.rotate()
	t.changeVelocity()
	t.Coords.X += t.Velocity.X
	t.Coords.Y += t.Velocity.Y

	if t.Bounds.Empty() {
		return
	}
	var clamped bool
	t.Coords, clamped = t.Bounds.Clamp(t.Coords, TankSize, TankSize)
	if clamped {
		t.Speed = 0
	}
}

// Apply overwrites the pose with a captured remote state. Steering is cleared so
// later updates only coast along the captured heading and speed.
func (t *Tank) Apply(p PlayerState) {
	t.Coords = Vector{X: p.X, Y: p.Y}
	t.Rotation = p.Rotation
	t.Heading = p.Heading
	t.Speed = p.Speed
	t.Color = p.Color
	t.Steer(DirectionNone, SpeedNone)
}

func (t *Tank) State(ID, timestamp int64) PlayerState {
	return PlayerState{
		ID:        ID,
		Timestamp: timestamp,
		X:         t.Coords.X,
		Y:         t.Coords.Y,
		Rotation:  t.Rotation,
		Heading:   t.Heading,
		Speed:     t.Speed,
		Color:     t.Color,
	}
}
