package render

import "github.com/go-gl/glfw/v3.3/glfw"

// Input tracks previous key state so the frame loop can detect press edges
// without installing callbacks.
type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

// JustPressed reports a released-to-pressed transition since the previous
// call for that key.
func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// PointerNDC converts the cursor position to normalized device coordinates,
// x right and y up, both spanning [-1, 1] across the window. A cursor
// outside the window extrapolates past that range.
func PointerNDC(window *glfw.Window) (float64, float64) {
	cx, cy := window.GetCursorPos()
	w, h := window.GetSize()
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	nx := cx/float64(w)*2 - 1
	ny := 1 - cy/float64(h)*2
	return nx, ny
}
