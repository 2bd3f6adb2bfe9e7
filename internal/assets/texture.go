package assets

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

// Texture is tightly packed 8-bit RGBA, top row first.
type Texture struct {
	Extent gfx.Extent
	Pixels []byte
}

func LoadTexture(path string) (Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return Texture{}, errors.Wrapf(err, "open texture %s", path)
	}
	defer f.Close()

	decoded, format, err := image.Decode(f)
	if err != nil {
		return Texture{}, errors.Wrapf(err, "decode texture %s", path)
	}

	tex := ToTexture(decoded)
	if tex.Extent.IsZero() {
		return Texture{}, errors.Newf("texture %s (%s) is empty", path, format)
	}
	return tex, nil
}

// ToTexture converts any decoded image to packed RGBA.
func ToTexture(src image.Image) Texture {
	bounds := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}

	return Texture{
		Extent: gfx.Extent{Width: bounds.Dx(), Height: bounds.Dy()},
		Pixels: rgba.Pix,
	}
}

func (t Texture) Size() int {
	return len(t.Pixels)
}
