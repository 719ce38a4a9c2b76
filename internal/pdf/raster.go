package pdf

import (
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/examforge/mcp-exam-extractor/internal/answerkey"
)

// PageRaster renders document pages through MuPDF and samples pixel
// colours from page regions. It backs the visual answer detector and
// must be closed after use.
type PageRaster struct {
	doc *fitz.Document

	mu     sync.Mutex
	images map[int]image.Image
}

// NewPageRaster opens a document for rasterization
func NewPageRaster(path string) (*PageRaster, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document for rendering: %w", err)
	}
	return &PageRaster{
		doc:    doc,
		images: make(map[int]image.Image),
	}, nil
}

// Close releases the renderer
func (p *PageRaster) Close() error {
	return p.doc.Close()
}

// Sample implements answerkey.RasterSampler. The box is given in page
// coordinates with the origin at the bottom-left; rendered images have
// their origin at the top-left, so the vertical axis is flipped before
// sampling.
func (p *PageRaster) Sample(pageIndex int, box answerkey.Rect) (answerkey.Histogram, error) {
	img, err := p.pageImage(pageIndex)
	if err != nil {
		return answerkey.Histogram{}, err
	}

	bound, err := p.doc.Bound(pageIndex)
	if err != nil {
		return answerkey.Histogram{}, fmt.Errorf("failed to read page bounds: %w", err)
	}
	pageW := float64(bound.Dx())
	pageH := float64(bound.Dy())
	if pageW <= 0 || pageH <= 0 {
		return answerkey.Histogram{}, fmt.Errorf("page %d has no area", pageIndex+1)
	}

	imgBounds := img.Bounds()
	scaleX := float64(imgBounds.Dx()) / pageW
	scaleY := float64(imgBounds.Dy()) / pageH

	x0 := imgBounds.Min.X + int(box.X*scaleX)
	x1 := imgBounds.Min.X + int((box.X+box.Width)*scaleX)
	y0 := imgBounds.Min.Y + int((pageH-box.Y-box.Height)*scaleY)
	y1 := imgBounds.Min.Y + int((pageH-box.Y)*scaleY)

	x0, x1 = clampRange(x0, x1, imgBounds.Min.X, imgBounds.Max.X)
	y0, y1 = clampRange(y0, y1, imgBounds.Min.Y, imgBounds.Max.Y)

	hist := answerkey.Histogram{Bands: make(map[answerkey.Band]int)}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			hist.Total++
			if band, ok := answerkey.ClassifyPixel(uint8(r>>8), uint8(g>>8), uint8(b>>8)); ok {
				hist.Bands[band]++
			}
		}
	}
	return hist, nil
}

// pageImage renders and caches one page
func (p *PageRaster) pageImage(pageIndex int) (image.Image, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if img, ok := p.images[pageIndex]; ok {
		return img, nil
	}
	if pageIndex < 0 || pageIndex >= p.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", pageIndex+1)
	}

	img, err := p.doc.Image(pageIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex+1, err)
	}
	p.images[pageIndex] = img
	return img, nil
}

func clampRange(lo, hi, minV, maxV int) (int, int) {
	if lo < minV {
		lo = minV
	}
	if hi > maxV {
		hi = maxV
	}
	return lo, hi
}
