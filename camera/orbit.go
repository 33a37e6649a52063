package camera

import (
	"math"

	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/mathgl"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeRotating
	ModeZooming
	ModePanning
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeRotating:
		return "rotating"
	case ModeZooming:
		return "zooming"
	case ModePanning:
		return "panning"
	}
	return "unknown"
}

type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

type Key int

const (
	KeyNone Key = iota
	KeyLeft
	KeyUp
	KeyRight
	KeyDown
)

const (
	// Keeps phi away from the poles, where theta is undefined.
	polarEpsilon = 0.000001

	pixelsPerRound = 1800
)

type point struct {
	x, y float64
}

// OrbitCamera keeps a camera on a sphere around a centre point. Input
// accumulates rotation/zoom deltas and Update, called once per frame, folds
// them into the camera position.
type OrbitCamera struct {
	opts Options

	position, center mathgl.Vec3
	orientation      mathgl.Mat4

	mode        Mode
	rotateStart point
	zoomStart   point

	thetaDelta, phiDelta float64
	scale                float64

	// Set when position or center changed outside of Update.
	moved bool

	theta, phi, radius float64
	lastPosition       mathgl.Vec3

	listeners []func(*OrbitCamera)
}

func New(position, center mathgl.Vec3, opts Options) *OrbitCamera {
	c := &OrbitCamera{
		opts:     opts,
		position: position,
		center:   center,
		scale:    1,
		moved:    true,
	}
	c.orientation = lookAt(position, center)
	return c
}

func (c *OrbitCamera) Options() Options {
	return c.opts
}

func (c *OrbitCamera) SetOptions(opts Options) {
	c.opts = opts
	c.moved = true
}

func (c *OrbitCamera) Mode() Mode {
	return c.mode
}

func (c *OrbitCamera) Position() mathgl.Vec3 {
	return c.position
}

func (c *OrbitCamera) Center() mathgl.Vec3 {
	return c.center
}

// Theta is the azimuth around +Y measured from +Z, as of the last Update.
func (c *OrbitCamera) Theta() float64 {
	return c.theta
}

// Phi is the angle from +Y, as of the last Update.
func (c *OrbitCamera) Phi() float64 {
	return c.phi
}

func (c *OrbitCamera) Radius() float64 {
	return c.radius
}

// Orientation is the camera's world transform: columns are its right, up
// and backward axes followed by its position.
func (c *OrbitCamera) Orientation() mathgl.Mat4 {
	return c.orientation
}

// View maps world coordinates into camera space.
func (c *OrbitCamera) View() mathgl.Mat4 {
	var view mathgl.Mat4
	view.Assign(&c.orientation)
	view.Inverse()
	return view
}

// OnChange registers fn to be called whenever Update moves the camera.
func (c *OrbitCamera) OnChange(fn func(*OrbitCamera)) {
	c.listeners = append(c.listeners, fn)
}

func (c *OrbitCamera) RotateLeft(angle float64) {
	c.thetaDelta -= angle
}

func (c *OrbitCamera) RotateRight(angle float64) {
	c.thetaDelta += angle
}

func (c *OrbitCamera) RotateUp(angle float64) {
	c.phiDelta -= angle
}

func (c *OrbitCamera) RotateDown(angle float64) {
	c.phiDelta += angle
}

// ZoomIn moves the camera towards the centre; factor is in (0, 1).
func (c *OrbitCamera) ZoomIn(factor float64) {
	c.scale *= factor
}

// ZoomOut moves the camera away from the centre; factor is in (0, 1).
func (c *OrbitCamera) ZoomOut(factor float64) {
	c.scale /= factor
}

// Pan moves both the camera and its centre. 'local' is a direction in
// camera space (+X right, +Y up); the step length is always PanSpeed.
func (c *OrbitCamera) Pan(local mathgl.Vec3) {
	basis := lookAt(c.position, c.center)
	right := column(&basis, 0)
	up := column(&basis, 1)
	back := column(&basis, 2)

	right.Scale(local.X)
	up.Scale(local.Y)
	back.Scale(local.Z)

	dir := right
	dir.Add(&up)
	dir.Add(&back)
	if length(dir) == 0 {
		return
	}
	dir.Normalize()
	dir.Scale(float32(c.opts.PanSpeed))

	c.position.Add(&dir)
	c.center.Add(&dir)
	c.moved = true
}

func (c *OrbitCamera) AutoRotationAngle() float64 {
	return 2 * math.Pi / 60 / 60 * c.opts.AutoRotateSpeed
}

func (c *OrbitCamera) ZoomFactor() float64 {
	return math.Pow(0.95, c.opts.ZoomSpeed)
}

func (c *OrbitCamera) PointerDown(button Button, x, y float64) {
	if !c.opts.Enabled {
		return
	}
	switch button {
	case ButtonLeft:
		if !c.opts.UserRotate {
			return
		}
		c.mode = ModeRotating
		c.rotateStart = point{x, y}
	case ButtonMiddle:
		if !c.opts.UserZoom {
			return
		}
		c.mode = ModeZooming
		c.zoomStart = point{x, y}
	case ButtonRight:
		if !c.opts.UserPan {
			return
		}
		c.mode = ModePanning
	}
	logging.Trace("camera pointer down", "button", button, "mode", c.mode)
}

// PointerMove takes the absolute pointer position and, for panning, the
// movement since the previous event.
func (c *OrbitCamera) PointerMove(x, y, movementX, movementY float64) {
	if !c.opts.Enabled {
		return
	}
	switch c.mode {
	case ModeRotating:
		dx := x - c.rotateStart.x
		dy := y - c.rotateStart.y
		c.RotateLeft(2 * math.Pi * dx / pixelsPerRound * c.opts.RotateSpeed)
		c.RotateUp(2 * math.Pi * dy / pixelsPerRound * c.opts.RotateSpeed)
		c.rotateStart = point{x, y}

	case ModeZooming:
		dy := y - c.zoomStart.y
		if dy > 0 {
			c.ZoomOut(c.ZoomFactor())
		} else if dy < 0 {
			c.ZoomIn(c.ZoomFactor())
		}
		c.zoomStart = point{x, y}

	case ModePanning:
		c.Pan(mathgl.Vec3{X: float32(-movementX), Y: float32(movementY)})
	}
}

func (c *OrbitCamera) PointerUp() {
	if !c.opts.Enabled {
		return
	}
	c.mode = ModeIdle
}

// Wheel takes a wheel delta where positive means scrolling away from the
// user.
func (c *OrbitCamera) Wheel(delta float64) {
	if !c.opts.Enabled || !c.opts.UserZoom {
		return
	}
	if delta > 0 {
		c.ZoomIn(c.ZoomFactor())
	} else if delta < 0 {
		c.ZoomOut(c.ZoomFactor())
	}
}

func (c *OrbitCamera) KeyDown(key Key) {
	if !c.opts.Enabled || !c.opts.UserPan {
		return
	}
	switch key {
	case KeyUp:
		c.Pan(mathgl.Vec3{Y: 1})
	case KeyDown:
		c.Pan(mathgl.Vec3{Y: -1})
	case KeyLeft:
		c.Pan(mathgl.Vec3{X: -1})
	case KeyRight:
		c.Pan(mathgl.Vec3{X: 1})
	}
}

func (c *OrbitCamera) pending() bool {
	return c.moved || c.thetaDelta != 0 || c.phiDelta != 0 || c.scale != 1
}

// Update folds the accumulated input into the camera position and
// re-orients it towards the centre. It returns true, and notifies
// listeners, only when the position actually changed.
func (c *OrbitCamera) Update() bool {
	if c.opts.AutoRotate {
		c.RotateLeft(c.AutoRotationAngle())
	}
	if !c.pending() {
		return false
	}

	ox := float64(c.position.X - c.center.X)
	oy := float64(c.position.Y - c.center.Y)
	oz := float64(c.position.Z - c.center.Z)

	theta := math.Atan2(ox, oz)
	phi := math.Atan2(math.Sqrt(ox*ox+oz*oz), oy)

	theta += c.thetaDelta
	phi += c.phiDelta

	phi = clamp(phi, c.opts.MinPolarAngle, c.opts.MaxPolarAngle)
	phi = clamp(phi, polarEpsilon, math.Pi-polarEpsilon)

	radius := math.Sqrt(ox*ox+oy*oy+oz*oz) * c.scale
	radius = clamp(radius, c.opts.MinDistance, c.opts.MaxDistance)

	c.position = mathgl.Vec3{
		X: c.center.X + float32(radius*math.Sin(phi)*math.Sin(theta)),
		Y: c.center.Y + float32(radius*math.Cos(phi)),
		Z: c.center.Z + float32(radius*math.Sin(phi)*math.Cos(theta)),
	}
	c.theta, c.phi, c.radius = theta, phi, radius
	c.orientation = lookAt(c.position, c.center)

	c.thetaDelta = 0
	c.phiDelta = 0
	c.scale = 1
	c.moved = false

	if c.position == c.lastPosition {
		return false
	}
	c.lastPosition = c.position
	logging.Trace("camera moved", "theta", theta, "phi", phi, "radius", radius)
	for _, fn := range c.listeners {
		fn(c)
	}
	return true
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}
