package viz

import (
	"image"
	"image/color"
	"image/gif"
	"io"
)

const (
	cellW = 8
	cellH = 16
	// frameDelay is in hundredths of a second.
	frameDelay = 2
)

// Recorder collects canvas frames for an animated GIF.
type Recorder struct {
	frames  []*image.Paletted
	palette color.Palette
}

func NewRecorder(band color.Color) *Recorder {
	return &Recorder{palette: color.Palette{color.Black, band}}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterizes the canvas, every braille dot as a cellW/2 by cellH/4 block.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), r.palette)
	dotW, dotH := cellW/2, cellH/4
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Encode writes the captured frames and forgets them.
func (r *Recorder) Encode(w io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, frameDelay)
	}
	r.frames = nil
	return gif.EncodeAll(w, &anim)
}
