// Renders one frame of the demo scene offscreen and writes the composited
// lightmap to a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/AmethystGear/assasin8"
)

func main() {
	var (
		out        = flag.String("out", "image.png", "output PNG path")
		width      = flag.Uint("width", 800, "lightmap width in pixels")
		height     = flag.Uint("height", 600, "lightmap height in pixels")
		scale      = flag.Uint("scale", 1, "integer upscale factor for the written image")
		visibility = flag.Float64("player-visibility", 1.0, "player shadow caster opacity in [0,1]")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logger := assasin8.NewDefaultLogger("assasin8", *debug)

	backend, err := assasin8.NewBackend()
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
		PhysicalWidth:  uint32(*width),
		PhysicalHeight: uint32(*height),
		ScaleFactor:    1,
	})
	scene.ShadowCasters[0].Visibility = float32(*visibility)

	lightmap, err := renderer.RenderScene(scene)
	if err != nil {
		logger.Errorf("rendering frame: %v", err)
		os.Exit(1)
	}

	img := image.Image(lightmap.Image())
	if *scale > 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, int(lightmap.Width)*int(*scale), int(lightmap.Height)*int(*scale)))
		draw.NearestNeighbor.Scale(dst, dst.Rect, img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	file, err := os.Create(*out)
	if err != nil {
		logger.Errorf("creating %s: %v", *out, err)
		os.Exit(1)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		logger.Errorf("encoding %s: %v", *out, err)
		os.Exit(1)
	}
	logger.Infof("wrote %dx%d lightmap to %s", img.Bounds().Dx(), img.Bounds().Dy(), *out)
}
