// Seeding preview tool - shows where the initial population lands for a
// given clustering and noise scale.
//
// Usage: go run ./cmd/seedpreview [-config config.yaml]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/trails/components"
	"github.com/pthm-cable/trails/config"
	"github.com/pthm-cable/trails/game"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridSize     = 256
)

// SeedParams holds the population settings being previewed.
type SeedParams struct {
	Clustering float32
	NoiseScale float32
	Initial    int
	Seed       int64
}

func defaultParams(pop config.PopulationConfig) SeedParams {
	return SeedParams{
		Clustering: float32(pop.Clustering),
		NoiseScale: float32(pop.NoiseScale),
		Initial:    pop.Initial,
		Seed:       12345,
	}
}

func (p SeedParams) population(base config.PopulationConfig) config.PopulationConfig {
	base.Clustering = float64(p.Clustering)
	base.NoiseScale = float64(p.NoiseScale)
	base.Initial = p.Initial
	return base
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	world := components.World{Width: float64(cfg.Derived.WorldW), Height: float64(cfg.Derived.WorldH)}

	rl.InitWindow(windowWidth, windowHeight, "Seeding Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg.Population)

	acceptance := make([]float32, gridSize*gridSize)
	var dots []components.Vec2
	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	showDots := true
	needsRegen := true

	// Preview rectangle scaled to the world's aspect ratio
	sx := float32(previewSize) / float32(world.Width)
	sy := float32(previewSize) / float32(world.Height)
	scale := sx
	if sy < scale {
		scale = sy
	}
	dst := rl.Rectangle{X: 10, Y: 10, Width: float32(world.Width) * scale, Height: float32(world.Height) * scale}

	for !rl.WindowShouldClose() {
		if needsRegen {
			seeder := game.NewSeeder(world, params.population(cfg.Population), params.Seed)
			sampleAcceptance(acceptance, seeder, world)
			updateTexture(texture, acceptance)
			dots = samplePositions(dots[:0], seeder, params)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			dst,
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		if showDots {
			for _, p := range dots {
				rl.DrawPixel(int32(dst.X+float32(p.X)*scale), int32(dst.Y+float32(p.Y)*scale), rl.Red)
			}
		}
		rl.DrawRectangleLinesEx(dst, 1, rl.DarkGray)

		// Draw stats
		var total float32
		var minVal, maxVal float32 = 1, 0
		for _, v := range acceptance {
			total += v
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		avg := total / float32(len(acceptance))

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Acceptance  Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, avg), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("World: %.0fx%.0f  Creatures: %d", world.Width, world.Height, len(dots)), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Seeding Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Clustering slider
		rl.DrawText("Clustering (0 = uniform)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newClustering := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "1",
			params.Clustering, 0, 1,
		)
		rl.DrawText(fmt.Sprintf("%.2f", params.Clustering), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newClustering != params.Clustering {
			params.Clustering = newClustering
			needsRegen = true
		}
		panelY += 35

		// Noise scale slider
		rl.DrawText("Noise scale (field frequency per pixel)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.0005", "0.02",
			params.NoiseScale, 0.0005, 0.02,
		)
		rl.DrawText(fmt.Sprintf("%.4f", params.NoiseScale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != params.NoiseScale {
			params.NoiseScale = newScale
			needsRegen = true
		}
		panelY += 35

		// Initial population slider
		rl.DrawText("Initial population", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newInitial := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "4000",
			float32(params.Initial), 0, 4000,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Initial), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newInitial) != params.Initial {
			params.Initial = int(newInitial)
			needsRegen = true
		}
		panelY += 35

		// Seed slider
		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", "99999",
			float32(params.Seed), 0, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showDots, "Hide Dots", "Show Dots")) {
			showDots = !showDots
		}

		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg.Population)
			needsRegen = true
		}
		panelY += 55

		// Output YAML
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)

		if rl.IsKeyPressed(rl.KeyC) {
			text := ""
			for _, line := range yamlLines(params) {
				text += line + "\n"
			}
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}

func yamlLines(p SeedParams) []string {
	return []string{
		"population:",
		fmt.Sprintf("  initial: %d", p.Initial),
		fmt.Sprintf("  clustering: %.2f", p.Clustering),
		fmt.Sprintf("  noise_scale: %.4f", p.NoiseScale),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// sampleAcceptance fills the grid with the seeder's acceptance probability
// at each cell center.
func sampleAcceptance(grid []float32, s *game.Seeder, world components.World) {
	for y := 0; y < gridSize; y++ {
		wy := (float64(y) + 0.5) / gridSize * world.Height
		for x := 0; x < gridSize; x++ {
			wx := (float64(x) + 0.5) / gridSize * world.Width
			grid[y*gridSize+x] = float32(s.Acceptance(components.V2(wx, wy)))
		}
	}
}

// samplePositions draws the initial population the way the game seeds it.
func samplePositions(dst []components.Vec2, s *game.Seeder, p SeedParams) []components.Vec2 {
	rng := rand.New(rand.NewSource(p.Seed))
	for i := 0; i < p.Initial; i++ {
		dst = append(dst, s.Position(rng))
	}
	return dst
}

// updateTexture updates the GPU texture from the grid values
func updateTexture(texture rl.Texture2D, grid []float32) {
	pixels := make([]color.RGBA, len(grid))
	for i, v := range grid {
		// Use a color gradient: dark blue -> cyan -> yellow -> white
		var r, g, b uint8
		if v < 0.25 {
			t := v / 0.25
			r = uint8(10 + t*30)
			g = uint8(20 + t*60)
			b = uint8(60 + t*100)
		} else if v < 0.5 {
			t := (v - 0.25) / 0.25
			r = uint8(40 + t*20)
			g = uint8(80 + t*120)
			b = uint8(160 + t*40)
		} else if v < 0.75 {
			t := (v - 0.5) / 0.25
			r = uint8(60 + t*140)
			g = uint8(200 - t*40)
			b = uint8(200 - t*150)
		} else {
			t := (v - 0.75) / 0.25
			r = uint8(200 + t*55)
			g = uint8(160 + t*95)
			b = uint8(50 + t*205)
		}
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
