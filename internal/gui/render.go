package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ToScreen maps a y-up world point to window pixels.
func (a *App) ToScreen(x, y float64) rl.Vector2 {
	return rl.NewVector2(float32(x*Scale), float32((a.Cfg.Params.Height-y)*Scale))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(ColBg)

	a.drawWall()
	a.drawParticles()
	a.drawHUD()
}

// drawParticles draws every particle as a square of side h.
func (a *App) drawParticles() {
	side := float32(a.Cfg.Params.KernelRange * Scale)
	size := rl.NewVector2(side, side)
	for _, p := range a.Solver.Particles() {
		c := a.ToScreen(p.Position.X, p.Position.Y)
		rl.DrawRectangleV(rl.NewVector2(c.X-side/2, c.Y-side/2), size, ColParticle)
	}
}

func (a *App) drawWall() {
	h := a.Cfg.Params.Height
	top := a.ToScreen(a.Solver.WallLeft(), h)
	bottom := a.ToScreen(a.Solver.WallLeft(), 0)
	rl.DrawLineEx(top, bottom, 3, ColWall)
}

func (a *App) drawHUD() {
	y := int32(a.Cfg.Params.Height*Scale) + 6
	status, col := "RUNNING", ColText
	if !a.Running {
		status, col = "PAUSED (P)", ColPaused
	}
	rl.DrawText(status, 8, y, 16, col)
	info := fmt.Sprintf("t=%.4fs  step=%d  x%d  wall=%.3f  KE=%.4f  %d fps",
		a.Time, a.Steps, a.StepsPerFrame, a.Solver.WallLeft(), a.KineticEnergy, rl.GetFPS())
	rl.DrawText(info, 140, y, 16, ColText)
}
