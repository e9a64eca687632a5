package charts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tensorplex-labs/gesturebench/internal/analysis"
	"github.com/tensorplex-labs/gesturebench/internal/dataset"
)

const (
	heatmapMarginLeft   = 80
	heatmapMarginTop    = 60
	heatmapMarginRight  = 110
	heatmapMarginBottom = 70
	colorbarWidth       = 24
)

// blues is the sequential palette light to dark.
var blues = []color.RGBA{
	{0xf7, 0xfb, 0xff, 0xff},
	{0xde, 0xeb, 0xf7, 0xff},
	{0xc6, 0xdb, 0xef, 0xff},
	{0x9e, 0xca, 0xe1, 0xff},
	{0x6b, 0xae, 0xd6, 0xff},
	{0x42, 0x92, 0xc6, 0xff},
	{0x21, 0x71, 0xb5, 0xff},
	{0x08, 0x51, 0x9c, 0xff},
	{0x08, 0x30, 0x6b, 0xff},
}

var (
	textDark  = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	textLight = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// RenderConfusionMatrix draws cm as a heatmap with the count printed in every cell,
// actual classes on rows and predicted classes on columns.
func RenderConfusionMatrix(w io.Writer, cm *analysis.ConfusionMatrix, recognizer int, opts Options) error {
	if cm == nil || cm.Classes == 0 {
		return fmt.Errorf("confusion matrix chart: no classes")
	}

	n := cm.Classes
	cell := min((opts.Width-heatmapMarginLeft-heatmapMarginRight)/n, (opts.Height-heatmapMarginTop-heatmapMarginBottom)/n)
	if cell < 8 {
		return fmt.Errorf("confusion matrix chart: %dx%d is too small for %d classes", opts.Width, opts.Height, n)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	peak := cm.Max()
	x0, y0 := heatmapMarginLeft, heatmapMarginTop
	for i, row := range cm.Counts {
		for j, c := range row {
			t := 0.0
			if peak > 0 {
				t = float64(c) / float64(peak)
			}
			rect := image.Rect(x0+j*cell, y0+i*cell, x0+(j+1)*cell, y0+(i+1)*cell)
			draw.Draw(img, rect, image.NewUniform(bluesAt(t)), image.Point{}, draw.Src)

			fg := textDark
			if t > 0.5 {
				fg = textLight
			}
			label := strconv.Itoa(c)
			drawCentered(img, face, label, fg, rect.Min.X+cell/2, rect.Min.Y+cell/2)
		}
	}

	// tick labels
	for k := range n {
		label := strconv.Itoa(k)
		drawCentered(img, face, label, textDark, x0+k*cell+cell/2, y0+n*cell+12)
		drawCentered(img, face, label, textDark, x0-14, y0+k*cell+cell/2)
	}

	gridBottom := y0 + n*cell
	drawCentered(img, face, "Predicted", textDark, x0+n*cell/2, gridBottom+36)
	drawText(img, face, "Actual", textDark, 8, y0-10)
	title := fmt.Sprintf("Confusion Matrix (%s, accuracy %.1f%%)", dataset.RecognizerName(recognizer), 100*cm.Accuracy())
	drawCentered(img, face, title, textDark, x0+n*cell/2, y0/2)

	drawColorbar(img, face, x0+n*cell+20, y0, n*cell, peak)

	return png.Encode(w, img)
}

func drawColorbar(img *image.RGBA, face font.Face, x, y, height, peak int) {
	for dy := range height {
		t := 1 - float64(dy)/float64(max(height-1, 1))
		line := image.Rect(x, y+dy, x+colorbarWidth, y+dy+1)
		draw.Draw(img, line, image.NewUniform(bluesAt(t)), image.Point{}, draw.Src)
	}
	drawText(img, face, strconv.Itoa(peak), textDark, x+colorbarWidth+6, y+10)
	drawText(img, face, "0", textDark, x+colorbarWidth+6, y+height)
}

// bluesAt interpolates the palette at t in [0,1].
func bluesAt(t float64) color.RGBA {
	t = min(max(t, 0), 1)
	pos := t * float64(len(blues)-1)
	i := int(pos)
	if i >= len(blues)-1 {
		return blues[len(blues)-1]
	}
	f := pos - float64(i)
	a, b := blues[i], blues[i+1]
	mix := func(p, q uint8) uint8 { return uint8(float64(p) + (float64(q)-float64(p))*f + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func drawText(img *image.RGBA, face font.Face, text string, col color.Color, x, y int) {
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	dr.DrawString(text)
}

// drawCentered draws text centred on (cx, cy).
func drawCentered(img *image.RGBA, face font.Face, text string, col color.Color, cx, cy int) {
	dr := &font.Drawer{Face: face}
	tw := dr.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	drawText(img, face, text, col, cx-tw/2, cy+ascent/2)
}
