package game

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Better-Minimap/internal/settings"
)

// handleInput applies edge-triggered key actions and continuous camera
// movement.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	if pressed(ebiten.KeyO) {
		g.ToggleOverlay()
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if pressed(ebiten.KeyM) {
		g.fullMinimap = !g.fullMinimap
	}
	if pressed(ebiten.KeyU) {
		g.CycleUnitFilter()
	}
	if pressed(ebiten.KeyB) {
		g.CycleBlockFilter()
	}
	if pressed(ebiten.KeyI) {
		g.feature.UnitFilter().Invert()
		g.status = "unit filter inverted"
	}
	if pressed(ebiten.KeyF) {
		g.CopySettings()
	}
	if pressed(ebiten.KeyK) {
		if g.world.KillRandomUnit() {
			g.status = "unit killed"
		}
	}
	if pressed(ebiten.KeyR) {
		g.Regenerate()
	}
	if pressed(ebiten.KeyEqual) {
		g.cam.MapZoomBy(1.25)
	}
	if pressed(ebiten.KeyMinus) {
		g.cam.MapZoomBy(1 / 1.25)
	}

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Pan(0, -1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Pan(0, 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.Pan(-1, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.Pan(1, 0)
	}
	_, wy := ebiten.Wheel()
	g.cam.WheelZoom(wy)

	g.prevKeys = currentKeys
}

// ToggleOverlay flips the overlay option, persists it and applies it
// without waiting for the periodic settings refresh.
func (g *Game) ToggleOverlay() {
	on := !g.store.Bool(settings.KeyEnabled, false)
	g.store.PutBool(settings.KeyEnabled, on)
	if err := g.store.Save(); err != nil {
		g.log.WithError(err).Warn("Failed to save settings.")
	}
	g.feature.ReloadSettings()
	g.status = fmt.Sprintf("overlay %s", onOff(on))
}

// CycleUnitFilter toggles the next unit type in registry order.
func (g *Game) CycleUnitFilter() {
	names := g.world.Registry().UnitNames()
	if len(names) == 0 {
		return
	}
	name := names[g.unitCursor%len(names)]
	g.unitCursor++
	on := g.feature.UnitFilter().Toggle(name)
	g.status = fmt.Sprintf("unit %s %s", name, onOff(on))
}

// CycleBlockFilter toggles the next building block in registry order.
func (g *Game) CycleBlockFilter() {
	names := g.world.Registry().BuildingBlockNames()
	if len(names) == 0 {
		return
	}
	name := names[g.blockCursor%len(names)]
	g.blockCursor++
	on := g.feature.BlockFilter().Toggle(name)
	g.status = fmt.Sprintf("block %s %s", name, onOff(on))
}

// CopySettings puts the exported settings on the clipboard.
func (g *Game) CopySettings() {
	data, err := g.store.Export()
	if err != nil {
		g.status = "export failed"
		g.log.WithError(err).Warn("Failed to export settings.")
		return
	}
	if err := clipboard.WriteAll(data); err != nil {
		g.status = "clipboard unavailable"
		g.log.WithError(err).Warn("Failed to copy settings.")
		return
	}
	g.status = "settings copied"
}

// Regenerate replaces the world with a freshly seeded one and tells the
// overlay its caches are stale.
func (g *Game) Regenerate() {
	g.seed++
	g.world = g.newWorld()
	g.cam = g.centredCamera()
	g.feature.OnWorldLoad()
	g.status = fmt.Sprintf("world regenerated (seed=%d)", g.seed)
	g.log.WithField("seed", g.seed).Info("World regenerated.")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
