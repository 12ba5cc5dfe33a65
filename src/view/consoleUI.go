package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"sparselife/src/universe"
)

const (
	viewHeader        = "header"
	viewConfiguration = "configuration"
	viewStatus        = "status"
	viewField         = "field"
	viewHelp          = "help"

	deadFiller = " "
	gridFiller = "·"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//refresh is one Refresh call waiting for the gui goroutine
type refresh struct {
	status universe.Status
	events []universe.Event
}

type ConsoleUI struct {
	u universe.Universe
	g *gocui.Gui
	k []keyBindings

	mu    sync.Mutex
	queue []refresh

	//owned by the gui goroutine
	sprites map[universe.Cell]string
	status  universe.Status
	camera  camera
	grid    bool
	message string
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateManual:   aurora.Colorize("paused", aurora.BlueFg).String(),
		universe.RunningStateRun:      aurora.Colorize("running", aurora.CyanFg).String(),
		universe.RunningStateFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

func NewViewTerminal() (*ConsoleUI, error) {

	var err error
	t := ConsoleUI{
		sprites: map[universe.Cell]string{},
	}

	t.g, err = gocui.NewGui(gocui.Output256)
	if err != nil {
		return nil, errors.Wrap(err, "can't initialize the terminal")
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{gocui.KeySpace, "SPACE/K", "Run/Stop", t.cmdTogglePlay, ""},
		{'k', "", "", t.cmdTogglePlay, ""},
		{'l', "L/N", "Next step", t.cmdNextRound, ""},
		{'n', "", "", t.cmdNextRound, ""},
		{'r', "R", "Clear", t.cmdClear, ""},
		{'w', "W", "Settle with random", t.cmdSettleWithRandom, ""},
		{'g', "G", "Grid", t.cmdGrid, ""},
		{'+', "+/-", "Faster/Slower", t.cmdFaster, ""},
		{'-', "", "", t.cmdSlower, ""},
		{gocui.KeyArrowLeft, "ARROWS", "Move", t.cmdPan(-1, 0), ""},
		{gocui.KeyArrowRight, "", "", t.cmdPan(1, 0), ""},
		{gocui.KeyArrowUp, "", "", t.cmdPan(0, 1), ""},
		{gocui.KeyArrowDown, "", "", t.cmdPan(0, -1), ""},
		{'o', "O", "To origin", t.cmdCenter, ""},
		{'z', "Z/X/WHEEL", "Zoom in/out", t.cmdZoomIn, ""},
		{'x', "", "", t.cmdZoomOut, ""},
		{gocui.MouseWheelUp, "", "", t.cmdZoomIn, viewField},
		{gocui.MouseWheelDown, "", "", t.cmdZoomOut, viewField},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, viewField},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

//Register is called by the universe on the viewer registration, it must not call the universe back
func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "terminal main loop")
	}
	return nil
}

//Refresh queues the changes for the gui goroutine
//the queue keeps the events order, gocui doesn't guarantee the order of the Update calls
func (t *ConsoleUI) Refresh(st universe.Status, events []universe.Event) {
	t.mu.Lock()
	t.queue = append(t.queue, refresh{st, events})
	t.mu.Unlock()
	t.g.Update(t.flush)
}

//flush applies the queued changes to the presentation state and redraws
func (t *ConsoleUI) flush(g *gocui.Gui) error {
	t.mu.Lock()
	queue := t.queue
	t.queue = nil
	t.mu.Unlock()
	if len(queue) == 0 {
		return nil
	}
	for _, r := range queue {
		t.applyEvents(r.events)
		t.status = r.status
	}
	t.renderField(g)
	t.renderConfiguration(g)
	t.renderStatus(g)
	return nil
}

func (t *ConsoleUI) applyEvents(events []universe.Event) {
	for _, e := range events {
		if e.Kind == universe.Born {
			t.sprites[e.Cell] = sprite(e.Cell)
		} else {
			delete(t.sprites, e.Cell)
		}
	}
}

func (t *ConsoleUI) renderField(g *gocui.Gui) {
	v, err := g.View(viewField)
	if err != nil {
		return
	}
	v.Clear()
	_, _ = fmt.Fprint(v, strings.Join(t.fieldRows(v.Size()), "\n"))
}

//fieldRows draws the sprites seen by the camera into w x h glyphs
//a zoomed out glyph shows the sprite of its smallest live cell
func (t *ConsoleUI) fieldRows(w, h int) []string {
	filler := deadFiller
	//the grid lines are hidden when zoomed out
	if t.grid && t.camera.zoom() == 1 {
		filler = gridFiller
	}

	glyphs := make([][]string, h)
	owners := make([][]*universe.Cell, h)
	for cy := range glyphs {
		glyphs[cy] = make([]string, w)
		owners[cy] = make([]*universe.Cell, w)
		for cx := range glyphs[cy] {
			glyphs[cy][cx] = filler
		}
	}
	for c, s := range t.sprites {
		cx, cy, ok := t.camera.toView(c, w, h)
		if !ok {
			continue
		}
		if o := owners[cy][cx]; o != nil && o.Less(c) {
			continue
		}
		c := c
		owners[cy][cx] = &c
		glyphs[cy][cx] = s
	}

	rows := make([]string, h)
	for cy := range glyphs {
		rows[cy] = strings.Join(glyphs[cy], "")
	}
	return rows
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui) {
	s := t.status
	if v, e := g.View(viewStatus); e == nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.IterationNum))
		_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
		_, _ = fmt.Fprintln(v, t.renderProp("Born/Died", "%v/%v", s.Born, s.Died))
		_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
		_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.RunningMode]))
		_, _ = fmt.Fprintln(v, t.renderProp("Centre", "%v", t.camera.origin))
		_, _ = fmt.Fprintln(v, t.renderProp("Zoom", "1:%v", t.camera.zoom()))
		if t.message != "" {
			_, _ = fmt.Fprintln(v, " "+aurora.Red(t.message).String())
		}
	}
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	if t.u == nil {
		return
	}
	c := t.u.Options()
	if v, e := g.View(viewConfiguration); e == nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Engine", "%v", c.Engine))
		_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", t.status.Interval))
		_, _ = fmt.Fprintln(v, t.renderProp("Frame", "%v", c.FrameInterval))
		_, _ = fmt.Fprintln(v, t.renderProp("Random square", "%v, %v", c.RandomSize, c.RandomDensity))
	}
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView(viewConfiguration)
		_ = g.DeleteView(viewStatus)
		_ = g.DeleteView(viewField)
		return nil
	}
	if _, err := t.headerLayout(g, 3, "\"The Life\" on the unbounded plane"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView(viewConfiguration, 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration(g)
	}

	if v, err := g.SetView(viewStatus, 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(g)
	}

	if v, err := g.SetView(viewField, leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Field"
		v.Frame = true
	}
	t.renderField(g)

	if v, err := g.SetView(viewHelp, -1, maxY-5, maxX, maxY-2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		first := true
		for _, k := range t.k {
			if k.name == "" {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView(viewHeader, -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		if maxX < len(text) {
			text = text[:maxX]
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", (maxX-len(text))/2)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdTogglePlay(_ *gocui.View) error {
	t.u.TogglePlay()
	return nil
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdGrid(_ *gocui.View) error {
	t.grid = !t.grid
	t.renderField(t.g)
	return nil
}

func (t *ConsoleUI) cmdFaster(_ *gocui.View) error {
	return t.setInterval(t.status.Interval / 2)
}

func (t *ConsoleUI) cmdSlower(_ *gocui.View) error {
	return t.setInterval(t.status.Interval * 2)
}

//setInterval shows the rejected interval in the status view instead of failing the main loop
func (t *ConsoleUI) setInterval(d time.Duration) error {
	t.message = ""
	if err := t.u.SetInterval(d); err != nil {
		t.message = err.Error()
		log.Printf("interval is not changed: %v", err)
	}
	t.renderStatus(t.g)
	return nil
}

func (t *ConsoleUI) cmdPan(dx, dy int64) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.camera.pan(dx, dy)
		t.renderField(t.g)
		t.renderStatus(t.g)
		return nil
	}
}

func (t *ConsoleUI) cmdCenter(_ *gocui.View) error {
	t.camera.origin = universe.Cell{}
	t.renderField(t.g)
	t.renderStatus(t.g)
	return nil
}

func (t *ConsoleUI) cmdZoomIn(_ *gocui.View) error {
	if t.camera.zoomIn() {
		t.renderField(t.g)
		t.renderStatus(t.g)
	}
	return nil
}

func (t *ConsoleUI) cmdZoomOut(_ *gocui.View) error {
	if t.camera.zoomOut() {
		t.renderField(t.g)
		t.renderStatus(t.g)
	}
	return nil
}

//cmdMouseClick toggles the top left cell of the clicked block
func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	w, h := v.Size()
	t.u.InverseCell(t.camera.toWorld(cx, cy, w, h))
	return nil
}
