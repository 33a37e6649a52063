// Package termview draws the board scene top-down in a terminal and turns
// terminal input into camera gestures.
package termview

import (
	"fmt"
	"math"
	"sort"

	"github.com/MobRulesGames/boardscene/assets"
	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/camera"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/scene"
	"github.com/MobRulesGames/mathgl"
	"github.com/gdamore/tcell/v2"
)

// Terminal cells are coarse; mouse positions are scaled up so that camera
// drag speeds stay close to what a pixel pointer would give.
const cellPixels = 8

var (
	tileStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	cornerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	modelStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

type object struct {
	handle scene.Handle
	pos    mathgl.Vec3
	seq    int
}

// View is a scene.Scene backed by a tcell screen.
type View struct {
	screen   tcell.Screen
	cam      *camera.OrbitCamera
	tileSize float32

	// Camera pose as of its last change; see project.
	right    mathgl.Vec3
	center   mathgl.Vec3
	zoom     float32
	baseDist float32

	objects map[scene.Handle]*object
	seq     int
	status  string
	console *Console

	buttons      tcell.ButtonMask
	lastX, lastY float64
}

var _ scene.Scene = (*View)(nil)

// New takes an initialized screen. tileSize is the world size of one board
// cell and must match the layout the scene is placed with. The camera's
// distance at this point is drawn at one terminal block per tile; the view
// follows the camera from then on.
func New(screen tcell.Screen, cam *camera.OrbitCamera, tileSize float32) *View {
	v := &View{
		screen:   screen,
		cam:      cam,
		tileSize: tileSize,
		baseDist: distance(cam.Position(), cam.Center()),
		objects:  make(map[scene.Handle]*object),
	}
	v.follow(cam)
	cam.OnChange(v.follow)
	return v
}

func distance(a, b mathgl.Vec3) float32 {
	a.Subtract(&b)
	return float32(math.Sqrt(float64(a.Dot(&a))))
}

// follow takes the camera's ground-plane heading from its right axis, and
// its zoom from how far it is from the centre.
func (v *View) follow(cam *camera.OrbitCamera) {
	o := cam.Orientation()
	right := mathgl.Vec3{X: o[0], Z: o[2]}
	if n := distance(right, mathgl.Vec3{}); n > 0 {
		right.Scale(1 / n)
	} else {
		right = mathgl.Vec3{X: 1}
	}
	v.right = right
	v.center = cam.Center()

	v.zoom = 1
	if d := distance(cam.Position(), v.center); d > 0 && v.baseDist > 0 {
		v.zoom = v.baseDist / d
	}
}

func (v *View) Attach(h scene.Handle, pos mathgl.Vec3) {
	v.seq++
	v.objects[h] = &object{handle: h, pos: pos, seq: v.seq}
}

func (v *View) Detach(h scene.Handle) {
	delete(v.objects, h)
}

func (v *View) SetPosition(h scene.Handle, pos mathgl.Vec3) {
	if obj, ok := v.objects[h]; ok {
		obj.pos = pos
		return
	}
	logging.Warn("position for unattached handle", "handle", h)
}

// Len is the number of attached objects.
func (v *View) Len() int {
	return len(v.objects)
}

// SetConsole adds a log console to the view.
func (v *View) SetConsole(c *Console) {
	v.console = c
}

func (v *View) SetStatus(msg string) {
	v.status = msg
}

func glyph(h scene.Handle) rune {
	switch m := h.(type) {
	case *assets.Model:
		if m.ModelDef != nil && m.Glyph != "" {
			return []rune(m.Glyph)[0]
		}
	case fmt.Stringer:
		if s := m.String(); s != "" {
			return []rune(s)[0]
		}
	}
	return '*'
}

func (v *View) cellSize() (int, int) {
	w, h := v.screen.Size()
	cw, ch := w/board.Size, (h-1)/board.Size
	if cw < 3 {
		cw = 3
	}
	if ch < 1 {
		ch = 1
	}
	return cw, ch
}

// Cell maps a world position onto the screen. The board is seen from above,
// turned so that the camera's right is screen right and the side nearest the
// camera is at the bottom, with the camera centre in the middle of the board
// area.
func (v *View) Cell(pos mathgl.Vec3) (int, int) {
	cw, ch := v.cellSize()
	pos.Subtract(&v.center)
	across := pos.X*v.right.X + pos.Z*v.right.Z
	down := pos.Z*v.right.X - pos.X*v.right.Z

	scale := v.zoom / v.tileSize
	x := float32(board.Size*cw)/2 + across*scale*float32(cw)
	y := float32(board.Size*ch)/2 + down*scale*float32(ch)
	return int(math.Floor(float64(x))), int(math.Floor(float64(y)))
}

func (v *View) tileCorner(row, col int) mathgl.Vec3 {
	return mathgl.Vec3{X: float32(col) * v.tileSize, Z: float32(row) * v.tileSize}
}

func (v *View) tileMiddle(t board.TileIndex) mathgl.Vec3 {
	gp := board.TileToGrid(t)
	return mathgl.Vec3{X: (float32(gp.Col) + 0.5) * v.tileSize, Z: (float32(gp.Row) + 0.5) * v.tileSize}
}

func (v *View) put(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// plot draws on the board area only, so nothing lands on the status line.
func (v *View) plot(x, y int, r rune, style tcell.Style) {
	w, _ := v.screen.Size()
	_, ch := v.cellSize()
	if x < 0 || y < 0 || x >= w || y >= board.Size*ch {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

// labelAt is where the number of tile t starts: centred one row above the
// tile's middle so tokens standing there leave it readable.
func (v *View) labelAt(t board.TileIndex) (int, int) {
	x, y := v.Cell(v.tileMiddle(t))
	if _, ch := v.cellSize(); ch > 1 {
		y--
	}
	return x - len(fmt.Sprint(t))/2, y
}

func (v *View) Draw() {
	v.screen.Clear()
	_, ch := v.cellSize()

	for t := board.TileIndex(0); t < board.TileCount; t++ {
		gp := board.TileToGrid(t)
		for _, corner := range [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
			x, y := v.Cell(v.tileCorner(gp.Row+corner[0], gp.Col+corner[1]))
			v.plot(x, y, '.', tileStyle)
		}
	}
	for t := board.TileIndex(0); t < board.TileCount; t++ {
		x, y := v.labelAt(t)
		style := tileStyle
		if t%10 == 0 {
			style = cornerStyle
		}
		for i, r := range fmt.Sprint(t) {
			v.plot(x+i, y, r, style)
		}
	}

	// Later attachments win when two objects share a cell.
	objs := make([]*object, 0, len(v.objects))
	for _, obj := range v.objects {
		objs = append(objs, obj)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].seq < objs[j].seq })
	for _, obj := range objs {
		x, y := v.Cell(obj.pos)
		v.plot(x, y, glyph(obj.handle), modelStyle)
	}

	line := fmt.Sprintf(" theta %+.2f  phi %.2f  r %.1f  %s ", v.cam.Theta(), v.cam.Phi(), v.cam.Radius(), v.cam.Mode())
	if v.status != "" {
		line += "| " + v.status + " "
	}
	v.put(0, board.Size*ch, line, statusStyle)

	if v.console != nil {
		v.console.Think()
		if v.console.Shown() {
			v.console.draw(v.screen, board.Size*ch)
		}
	}
	v.screen.Show()
}

// HandleEvent forwards ev to the camera. It returns false when the user asked
// to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	if v.console != nil {
		if ev.Key() == tcell.KeyRune && ev.Rune() == '`' {
			v.console.Toggle()
			return true
		}
		if v.console.Shown() && v.console.respond(ev) {
			return true
		}
	}
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.cam.KeyDown(camera.KeyUp)
	case tcell.KeyDown:
		v.cam.KeyDown(camera.KeyDown)
	case tcell.KeyLeft:
		v.cam.KeyDown(camera.KeyLeft)
	case tcell.KeyRight:
		v.cam.KeyDown(camera.KeyRight)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case '+', '=':
			v.cam.Wheel(1)
		case '-', '_':
			v.cam.Wheel(-1)
		case 'a':
			v.cam.RotateLeft(v.cam.AutoRotationAngle() * 30)
		case 'd':
			v.cam.RotateRight(v.cam.AutoRotationAngle() * 30)
		case 'w':
			v.cam.RotateUp(v.cam.AutoRotationAngle() * 30)
		case 's':
			v.cam.RotateDown(v.cam.AutoRotationAngle() * 30)
		}
	}
	return true
}

func pressedButton(mask tcell.ButtonMask) camera.Button {
	switch {
	case mask&tcell.ButtonMiddle != 0:
		return camera.ButtonMiddle
	case mask&tcell.ButtonSecondary != 0:
		return camera.ButtonRight
	}
	return camera.ButtonLeft
}

func (v *View) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := float64(cx*cellPixels), float64(cy*cellPixels)
	mask := ev.Buttons()

	if mask&tcell.WheelUp != 0 {
		v.cam.Wheel(1)
	} else if mask&tcell.WheelDown != 0 {
		v.cam.Wheel(-1)
	}

	pressed := mask & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)
	switch {
	case pressed != 0 && v.buttons == 0:
		v.cam.PointerDown(pressedButton(pressed), x, y)
	case pressed != 0:
		v.cam.PointerMove(x, y, x-v.lastX, y-v.lastY)
	case v.buttons != 0:
		v.cam.PointerUp()
	}
	v.buttons = pressed
	v.lastX, v.lastY = x, y
}
