package gui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/zendigits/internal/scene"
)

var (
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type App struct {
	Scene   *scene.Scene
	Frame   *frameTexture
	Running bool
	Debug   bool

	elapsed float64
	last    scene.FrameInfo
	logger  *slog.Logger
}

// initWindow opens a resizable window sized to the scene.
func initWindow(w, h, fps int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint)
	rl.InitWindow(int32(w), int32(h), "zendigits")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func NewApp(s *scene.Scene, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	w, h := s.Size()
	return &App{
		Scene:   s,
		Frame:   newFrameTexture(w, h),
		Running: true,
		logger:  logger,
	}
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(s *scene.Scene, logger *slog.Logger) {
	w, h := s.Size()
	initWindow(w, h, s.Config().FPS)
	defer rl.CloseWindow()

	app := NewApp(s, logger)
	defer app.Frame.Unload()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the scene. It returns false when the
// user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeyR) {
		n := a.Scene.Randomize()
		a.logger.Info("random numeral", "number", n)
	}
	if rl.IsKeyPressed(rl.KeyC) {
		lock := a.Scene.ToggleLock()
		a.logger.Info("script lock toggled", "lock", string(lock))
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyD) {
		a.Debug = !a.Debug
	}

	if rl.IsWindowResized() {
		w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
		if w > 0 && h > 0 {
			a.Scene.Resize(w, h)
			a.Frame.Resize(w, h)
			a.logger.Debug("window resized", "width", w, "height", h)
		}
	}

	if a.Running {
		a.elapsed += float64(rl.GetFrameTime())
	}
	a.last = a.Scene.FrameAt(a.elapsed, a.Frame.Image())
	return true
}

func (a *App) Draw() {
	a.Frame.Upload()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	a.Frame.Draw()
	if a.Debug {
		a.drawDebug()
	}
	rl.EndDrawing()
}

func (a *App) drawDebug() {
	lock := "cycling"
	if a.Scene.Locked() != "" {
		lock = "locked"
	}
	rl.DrawText(fmt.Sprintf("%s  %s (%s)", a.Scene.Number(), a.last.Script, lock), 14, 14, 16, ColText)
	rl.DrawText(fmt.Sprintf("%d particles  %.0f%% cache hits  %d FPS",
		len(a.last.Particles), a.last.Cache.HitRatio()*100, rl.GetFPS()), 14, 34, 14, ColTextDim)
	if !a.Running {
		rl.DrawText("PAUSED", 14, 54, 14, ColText)
	}
	rl.DrawText("[R] RANDOM  [C] LOCK  [SPACE] PAUSE  [D] DEBUG  [Q] QUIT", 14, int32(rl.GetScreenHeight())-24, 14, ColTextDim)
}
