// Package terminal draws book covers with the inline image protocols that
// some terminals support.
package terminal

import (
	"bytes"
	"image"
	"image/color/palette"
	"os"

	"github.com/BourgeoisBear/rasterm"
	"golang.org/x/image/draw"
)

// TermImageMode represents the terminal's image display capability
type TermImageMode int

const (
	// TermModeNone indicates no image support
	TermModeNone TermImageMode = iota
	// TermModeKitty indicates Kitty graphics protocol support
	TermModeKitty
	// TermModeIterm indicates iTerm2 graphics protocol support
	TermModeIterm
	// TermModeSixel indicates Sixel graphics protocol support
	TermModeSixel
)

// CoverImageID is a stable ID for the details cover (for Kitty protocol)
const CoverImageID uint32 = 2025

// Approximate pixel size of one terminal cell
const (
	cellWidthPx  = 10
	cellHeightPx = 20
)

// String returns a human-readable name for the terminal mode
func (m TermImageMode) String() string {
	switch m {
	case TermModeKitty:
		return "Kitty"
	case TermModeIterm:
		return "iTerm2"
	case TermModeSixel:
		return "Sixel"
	default:
		return "None"
	}
}

// DetectTerminalMode checks which image protocol the terminal supports
func DetectTerminalMode() TermImageMode {
	if rasterm.IsKittyCapable() {
		return TermModeKitty
	}
	if rasterm.IsItermCapable() {
		return TermModeIterm
	}
	if capable, _ := rasterm.IsSixelCapable(); capable {
		return TermModeSixel
	}
	return TermModeNone
}

// FitToCells scales img to fit inside a box of cols x rows terminal cells,
// keeping the aspect ratio. Images already small enough are returned as is.
func FitToCells(img image.Image, cols, rows int) image.Image {
	maxW, maxH := cols*cellWidthPx, rows*cellHeightPx
	b := img.Bounds()
	if maxW <= 0 || maxH <= 0 || (b.Dx() <= maxW && b.Dy() <= maxH) {
		return img
	}

	w, h := maxW, b.Dy()*maxW/b.Dx()
	if h > maxH {
		h, w = maxH, b.Dx()*maxH/b.Dy()
	}
	w, h = max(w, 1), max(h, 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// ImageToPaletted converts an image to a paletted image required for Sixel
func ImageToPaletted(img image.Image) *image.Paletted {
	bounds := img.Bounds()
	paletted := image.NewPaletted(bounds, palette.Plan9)
	draw.Draw(paletted, bounds, img, bounds.Min, draw.Src)
	return paletted
}

// RenderImageToString renders an image to an escape sequence string for the
// given terminal mode. Unsupported terminals get "".
func RenderImageToString(img image.Image, mode TermImageMode) (string, error) {
	var buf bytes.Buffer
	var renderErr error

	switch mode {
	case TermModeKitty:
		renderErr = rasterm.KittyWriteImage(&buf, img, rasterm.KittyImgOpts{ImageId: CoverImageID})
	case TermModeIterm:
		renderErr = rasterm.ItermWriteImage(&buf, img)
	case TermModeSixel:
		renderErr = rasterm.SixelWriteImage(&buf, ImageToPaletted(img))
	default:
		return "", nil
	}

	if renderErr != nil {
		return "", renderErr
	}
	return buf.String(), nil
}

// ClearImages returns the escape sequence to clear all terminal images
func ClearImages(mode TermImageMode) string {
	switch mode {
	case TermModeKitty:
		// a=d (action=delete), d=A (delete all images)
		return "\x1b_Ga=d,d=A\x1b\\"
	case TermModeIterm, TermModeSixel:
		return "\x1b[2J\x1b[H"
	default:
		return ""
	}
}

// ClearImagesCmd returns a function that clears terminal images on stdout.
// Call it before leaving a view that drew a cover.
func ClearImagesCmd(mode TermImageMode) func() {
	return func() {
		if seq := ClearImages(mode); seq != "" {
			_, _ = os.Stdout.WriteString(seq)
		}
	}
}
