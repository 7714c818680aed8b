package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-snake/internal/core"
)

const (
	hudHeight = 2 // Top HUD lines
	cellWidth = 2 // Terminal cells are about twice as tall as wide
)

// BoardSize returns the screen area the board needs, HUD included.
func BoardSize(gridSize int) (w, h int) {
	return gridSize*cellWidth + 2, gridSize + 2 + hudHeight
}

// Render draws the state into dst: HUD, framed board, body, target and a
// phase overlay. best is the persisted best score shown in the HUD.
func Render(dst *core.Screen, st State, best int) {
	dst.Clear()

	hud := fmt.Sprintf(" Snake | Score: %d  Best: %d  Length: %d", st.Score, max(best, st.Score), len(st.Body))
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')

	w, h := BoardSize(st.GridSize)
	if dst.Width() < w || dst.Height() < h {
		renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", w, h))
		return
	}

	offX := (dst.Width() - w) / 2
	offY := hudHeight
	dst.DrawBox(core.NewRect(offX, offY, w, st.GridSize+2), core.ColorGray)

	// Cell (x, y) starts at this screen column/row.
	at := func(c core.Cell) (int, int) {
		return offX + 1 + c.X*cellWidth, offY + 1 + c.Y
	}

	for y := 0; y < st.GridSize; y++ {
		for x := 0; x < st.GridSize; x++ {
			sx, sy := at(core.Cell{X: x, Y: y})
			dst.SetColored(sx+1, sy, '·', core.ColorGray)
		}
	}

	if !st.Won {
		tx, ty := at(st.Target)
		dst.DrawTextColored(tx, ty, "██", core.ColorBrightRed)
	}

	for i := len(st.Body) - 1; i >= 0; i-- {
		sx, sy := at(st.Body[i])
		color := core.ColorGreen
		if i == 0 {
			color = core.ColorBrightGreen
		}
		dst.DrawTextColored(sx, sy, "██", color)
	}

	switch st.Phase {
	case PhaseIdle:
		renderOverlay(dst, "Snake", "Press Space to start")
	case PhasePaused:
		renderOverlay(dst, "Paused", "Press Space or C to continue")
	case PhaseOver:
		title := "Game Over"
		if st.Won {
			title = "You Win!"
		}
		renderOverlay(dst, title, fmt.Sprintf("Final Score: %d", st.Score), "Press N for a new game")
	}
}

// renderOverlay draws a centered box with one line of text per argument.
func renderOverlay(dst *core.Screen, lines ...string) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len([]rune(l)))
	}

	boxW := maxLen + 4
	boxH := len(lines)*2 + 1
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	for i, l := range lines {
		color := core.ColorDefault
		if i == 0 {
			color = core.ColorYellow
		}
		x := box.X + (boxW-len([]rune(l)))/2
		dst.DrawTextColored(x, box.Y+1+i*2, l, color)
	}
}
