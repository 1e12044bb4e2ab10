package snapfit

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowConfig struct {
	Title  string
	Width  int
	Height int
}

// OpenWindow initializes glfw and creates a window without a client API.
// The caller must run on the main OS thread and call glfw.Terminate.
func OpenWindow(cfg WindowConfig) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return win, nil
}

// GlfwInputSource fills an Input from a glfw window once per frame.
type GlfwInputSource struct {
	window *glfw.Window
}

func NewGlfwInputSource(window *glfw.Window) *GlfwInputSource {
	return &GlfwInputSource{window: window}
}

func (src *GlfwInputSource) Poll(input *Input) {
	glfw.PollEvents()
	for key, glfwKey := range keyToGlfw {
		action := src.window.GetKey(glfwKey)
		switch action {
		case glfw.Press, glfw.Repeat:
			input.SetKey(key, true)
		case glfw.Release:
			input.SetKey(key, false)
		}
	}
}

var keyToGlfw = map[int]glfw.Key{
	KeyE:            glfw.KeyE,
	KeyG:            glfw.KeyG,
	KeyH:            glfw.KeyH,
	KeyO:            glfw.KeyO,
	KeyQ:            glfw.KeyQ,
	KeyR:            glfw.KeyR,
	KeyS:            glfw.KeyS,
	KeyU:            glfw.KeyU,
	KeyV:            glfw.KeyV,
	Key1:            glfw.Key1,
	Key2:            glfw.Key2,
	Key3:            glfw.Key3,
	Key4:            glfw.Key4,
	Key5:            glfw.Key5,
	Key6:            glfw.Key6,
	Key7:            glfw.Key7,
	Key8:            glfw.Key8,
	Key9:            glfw.Key9,
	KeyEnter:        glfw.KeyEnter,
	KeyEscape:       glfw.KeyEscape,
	KeyTab:          glfw.KeyTab,
	KeyBackspace:    glfw.KeyBackspace,
	KeyRight:        glfw.KeyRight,
	KeyLeft:         glfw.KeyLeft,
	KeyDown:         glfw.KeyDown,
	KeyUp:           glfw.KeyUp,
	KeyMinus:        glfw.KeyMinus,
	KeyEqual:        glfw.KeyEqual,
	KeyKPPlus:       glfw.KeyKPAdd,
	KeyKPMinus:      glfw.KeyKPSubtract,
	KeyLeftBracket:  glfw.KeyLeftBracket,
	KeyRightBracket: glfw.KeyRightBracket,
	KeySemicolon:    glfw.KeySemicolon,
	KeyApostrophe:   glfw.KeyApostrophe,
	KeyLeftShift:    glfw.KeyLeftShift,
	KeyRightShift:   glfw.KeyRightShift,
	KeyControl:      glfw.KeyLeftControl,
}
