// Interactive viewer: renders the demo scene's lightmap every frame and
// presents it in a GLFW window, with the red light orbiting the player.
package main

import (
	"math"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/AmethystGear/assasin8"
)

const (
	windowWidth  = 800
	windowHeight = 600
)

func init() {
	runtime.LockOSThread()
}

func main() {
	logger := assasin8.NewDefaultLogger("assasin8-view", false)

	if err := glfw.Init(); err != nil {
		logger.Errorf("initializing glfw: %v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, "assasin8", nil, nil)
	if err != nil {
		logger.Errorf("creating window: %v", err)
		os.Exit(1)
	}

	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	backend, err := assasin8.NewWindowedBackend(win, windowWidth, windowHeight)
	if err != nil {
		logger.Errorf("acquiring gpu backend: %v", err)
		os.Exit(1)
	}
	defer backend.Destroy()

	renderer, err := assasin8.NewRenderer(backend, assasin8.RendererConfig{Logger: logger})
	if err != nil {
		logger.Errorf("creating renderer: %v", err)
		os.Exit(1)
	}
	defer renderer.Destroy()

	scene := assasin8.DemoScene(assasin8.Window{
		PhysicalWidth:  windowWidth,
		PhysicalHeight: windowHeight,
		ScaleFactor:    1,
	})

	for !win.ShouldClose() {
		glfw.PollEvents()

		// Orbit the red light around the player.
		angle := glfw.GetTime() * 0.5
		scene.Lights[0].Position = mgl32.Vec3{
			float32(math.Cos(angle)) * 200,
			float32(math.Sin(angle)) * 200,
			1,
		}

		if err := renderer.PresentFrame(scene); err != nil {
			logger.Errorf("presenting frame: %v", err)
			break
		}
	}
}
