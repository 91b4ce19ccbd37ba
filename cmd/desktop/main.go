package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"pixelwalle/pkg/compiler"
	"pixelwalle/pkg/config"
	"pixelwalle/pkg/interp"
	"pixelwalle/pkg/utils"
)

// statusBarHeight is the strip under the canvas used for debugger text.
const statusBarHeight = 48

type Game struct {
	dbg       *interp.Debugger
	size      int
	scale     int
	running   bool
	perFrame  int // statements executed per frame while running
	lastLog   string
	canvasImg *ebiten.Image // reused size×size bitmap
	marker    *ebiten.Image
}

func NewGame(dbg *interp.Debugger, size, scale, perFrame int) *Game {
	if perFrame < 1 {
		perFrame = 1
	}
	return &Game{dbg: dbg, size: size, scale: scale, perFrame: perFrame}
}

// advance executes up to n statements and stops running once the program
// is done.
func (g *Game) advance(n int) {
	for k := 0; k < n; k++ {
		r := g.dbg.Step()
		g.lastLog = r.LogMessage
		if r.Finished {
			g.running = false
			return
		}
	}
}

func (g *Game) reset() {
	g.dbg.Reset()
	g.running = false
	g.lastLog = "reset"
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.running = !g.running
	case inpututil.IsKeyJustPressed(ebiten.KeyN), inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.running = false
		g.advance(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		r := g.dbg.Continue()
		g.lastLog = r.LogMessage
		g.running = false
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reset()
	}

	if g.running {
		g.advance(g.perFrame)
	}
	return nil
}

func (g *Game) drawCanvas(screen *ebiten.Image) {
	if g.canvasImg == nil {
		g.canvasImg = ebiten.NewImage(g.size, g.size)
	}

	g.canvasImg.WritePixels(g.dbg.Interpreter().Canvas().RGBA())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.canvasImg, op)
}

func (g *Game) drawCursor(screen *ebiten.Image) {
	if g.marker == nil {
		g.marker = ebiten.NewImage(1, 1)
		g.marker.Fill(color.RGBA{R: 255, G: 0, B: 255, A: 160})
	}
	i := g.dbg.Interpreter()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	op.GeoM.Translate(float64(i.X()*g.scale), float64(i.Y()*g.scale))
	screen.DrawImage(g.marker, op)
}

func (g *Game) statusText() string {
	st := g.dbg.State()
	return fmt.Sprintf("%s  pc %d/%d  cursor (%d, %d)  %s brush %d\n%s\n[space] run/pause  [n] step  [enter] continue  [r] reset",
		st.Status, st.PC, st.TotalStatements, st.Cursor.X, st.Cursor.Y, st.Cursor.Color, st.Cursor.Size, g.lastLog)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 40, G: 40, B: 40, A: 255})
	g.drawCanvas(screen)
	g.drawCursor(screen)
	ebitenutil.DebugPrintAt(screen, g.statusText(), 4, g.size*g.scale+2)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return layoutSize(g.size, g.scale)
}

func layoutSize(size, scale int) (int, int) {
	w := size * scale
	if w < 480 {
		w = 480
	}
	return w, size*scale + statusBarHeight
}

// fitScale picks a cell size that keeps the window near 640 pixels.
func fitScale(size int) int {
	scale := 640 / size
	if scale < 1 {
		return 1
	}
	return scale
}

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	size := flag.Int("size", 0, "canvas size (overrides config)")
	perFrame := flag.Int("speed", 1, "statements executed per frame while running")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: desktop [-config file.yml] [-size n] [-speed n] program.pw")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *size != 0 {
		cfg.CanvasSize = *size
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	fullPath, source, err := utils.ReadSource(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	prog, err := compiler.Compile(source, cfg.CanvasSize)
	if err != nil {
		log.Fatalf("Compilation failed:\n%v", err)
	}
	dbg := interp.NewDebugger(prog, cfg.CanvasSize, interp.WithMaxSteps(cfg.MaxSteps))

	scale := fitScale(cfg.CanvasSize)
	w, h := layoutSize(cfg.CanvasSize, scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Pixel Wall-E: " + filepath.Base(fullPath))

	game := NewGame(dbg, cfg.CanvasSize, scale, *perFrame)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
