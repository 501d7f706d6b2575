package game

import (
	"embed"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"tanks/world"
)

const (
	dir = "assets"
)

//go:embed assets/*
var assets embed.FS

//go:embed assets/version.txt
var Version string

type Assets struct {
	images map[string]*ebiten.Image
}

func (a *Assets) Image(name string) *ebiten.Image {
	image := a.images[name]
	if image == nil {
		log.Fatalf("invalid image name: %s", name)
	}
	return image
}

// LoadAssets decodes every embedded png. A "tank" sprite is generated when none is shipped.
func LoadAssets() (*Assets, error) {
	a := &Assets{
		images: make(map[string]*ebiten.Image),
	}

	files, err := assets.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if f.IsDir() || filepath.Ext(strings.ToLower(f.Name())) != ".png" {
			continue
		}
		name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		if _, ok := a.images[name]; ok {
			return nil, fmt.Errorf("duplicate filename: %s", name)
		}

		// embed.FS paths always use forward slashes.
		file, err := assets.Open(strings.Join([]string{dir, f.Name()}, "/"))
		if err != nil {
			return nil, err
		}
		decoded, _, err := image.Decode(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		a.images[name] = ebiten.NewImageFromImage(decoded)
	}

	if _, ok := a.images["tank"]; !ok {
		a.images["tank"] = ebiten.NewImageFromImage(tankImage(world.TankSize))
	}
	return a, nil
}

// tankImage is a white isosceles triangle pointing down the +Y axis, the direction
// a tank with zero heading drives. It is tinted per tank when drawn.
func tankImage(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	center := float64(size-1) / 2
	for y := 0; y < size; y++ {
		half := center * float64(size-1-y) / float64(size-1)
		for x := 0; x < size; x++ {
			if d := float64(x) - center; d >= -half-0.5 && d <= half+0.5 {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}
