package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// maxLogoPixels caps the embedded logo width; the logo is printed 3 cm wide.
const maxLogoPixels = 600

var errNoLogoPath = errors.New("no logo path configured")

// Logo is the outcome of loading the optional logo asset.
// Either Image is set, or Reason explains why the logo is unavailable.
type Logo struct {
	Image  image.Image
	Reason error
}

// Available reports whether the logo can be drawn.
func (l Logo) Available() bool {
	return l.Image != nil && l.Reason == nil
}

// AspectRatio returns height/width of the logo image.
func (l Logo) AspectRatio() float64 {
	if !l.Available() {
		return 0
	}
	b := l.Image.Bounds()
	if b.Dx() == 0 {
		return 0
	}
	return float64(b.Dy()) / float64(b.Dx())
}

// LoadLogo reads and decodes the logo at path. It never fails; problems are
// reported through Logo.Reason.
func LoadLogo(path string) Logo {
	if path == "" {
		return Logo{Reason: errNoLogoPath}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return Logo{Reason: fmt.Errorf("failed to open logo %s: %w", path, err)}
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Logo{Reason: fmt.Errorf("logo %s has no pixels", path)}
	}
	if b.Dx() > maxLogoPixels {
		img = imaging.Resize(img, maxLogoPixels, 0, imaging.Lanczos)
	}

	return Logo{Image: img}
}

// encodePNG returns the logo as PNG bytes for embedding.
func (l Logo) encodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, l.Image, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), nil
}
