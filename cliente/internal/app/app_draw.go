package app

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena e o HUD.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	a.drawScene()
	a.drawHUD()

	rl.EndDrawing()
}

// drawScene renderiza a cena 3D.
func (a *App) drawScene() {
	rl.BeginMode3D(a.Cam.RLCamera)

	if a.Config.ShowGrid {
		rl.DrawGrid(40, 1.0)
	}

	if a.renderer != nil {
		a.renderer.Draw()
	}

	rl.EndMode3D()
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(320)
	height := int32(170)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	connStr := "Offline"
	connColor := rl.Red
	if a.netClient != nil && a.netClient.IsConnected() {
		connStr = "Conectado"
		connColor = rl.Green
		if a.simPaused {
			connStr = "Pausado"
			connColor = rl.Yellow
		}
	}
	rl.DrawText(connStr, x+215, y+10, 20, connColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("CENA", x+10, y+45, 12, rl.Gray)
	worldStr := a.worldName
	if worldStr == "" {
		worldStr = "(sem mundo)"
	}
	rl.DrawText(worldStr, x+10, y+60, 16, rl.Gold)

	models, visuals, lights := a.countNodes()
	rl.DrawText(fmt.Sprintf("Modelos: %d  Visuais: %d  Luzes: %d", models, visuals, lights),
		x+10, y+80, 14, rl.White)

	collStr := "Colisões: ocultas (C alterna)"
	if a.showCollided {
		collStr = "Colisões: visíveis (C alterna)"
	}
	rl.DrawText(collStr, x+10, y+98, 14, rl.LightGray)

	rl.DrawLine(x+10, y+118, x+width-10, y+118, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("STATUS", x+10, y+126, 12, rl.Gray)
	rl.DrawText(trimStatus(a.statusLine), x+10, y+142, 14, rl.SkyBlue)
}
