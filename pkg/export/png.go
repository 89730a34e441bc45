package export

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

const (
	exportPadding = 40.0
	cardRadius    = 8.0
	titleSize     = 14.0
	labelSize     = 11.0
)

// PNG renders the canvas to a PNG image: task links first, then element
// cards in z-order, with title, status, and a progress bar for topics.
func PNG(filename string, elements []*plan.CanvasElement) error {
	if len(elements) == 0 {
		return fmt.Errorf("nothing to export")
	}

	// Calculate bounds of all elements
	minX, minY := elements[0].X, elements[0].Y
	maxX, maxY := elements[0].X+elements[0].Width, elements[0].Y+elements[0].Height
	for _, e := range elements[1:] {
		if e.X < minX {
			minX = e.X
		}
		if e.Y < minY {
			minY = e.Y
		}
		if e.X+e.Width > maxX {
			maxX = e.X + e.Width
		}
		if e.Y+e.Height > maxY {
			maxY = e.Y + e.Height
		}
	}
	minX -= exportPadding
	minY -= exportPadding
	maxX += exportPadding
	maxY += exportPadding

	dc := gg.NewContext(int(maxX-minX), int(maxY-minY))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	titleFace := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    titleSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	labelFace := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    labelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	// Draw task links first (so they appear behind cards)
	index := make(map[string]*plan.CanvasElement, len(elements))
	for _, e := range elements {
		index[e.ID] = e
	}
	for _, e := range elements {
		if e.ParentTopicID == "" {
			continue
		}
		parent, ok := index[e.ParentTopicID]
		if !ok {
			continue
		}
		dc.SetLineWidth(1.0)
		dc.SetRGBA(0.6, 0.6, 0.6, 1)
		dc.DrawLine(
			parent.X+parent.Width/2-minX, parent.Y+parent.Height/2-minY,
			e.X+e.Width/2-minX, e.Y+e.Height/2-minY,
		)
		dc.Stroke()
	}

	for _, e := range sortByZ(elements) {
		drawCard(dc, e, minX, minY, titleFace, labelFace)
	}

	return dc.SavePNG(filename)
}

func drawCard(dc *gg.Context, e *plan.CanvasElement, minX, minY float64, titleFace, labelFace font.Face) {
	x, y := e.X-minX, e.Y-minY

	dc.SetHexColor(e.Color)
	dc.DrawRoundedRectangle(x, y, e.Width, e.Height, cardRadius)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(titleFace)
	title := truncate(e.Title, int(e.Width/8))
	dc.DrawString(title, x+10, y+20)

	dc.SetFontFace(labelFace)
	line := y + 38
	if e.HasStatus() {
		dc.DrawString(plan.StatusDisplayName(e.Status), x+10, line)
		line += 16
	}
	if e.DueDate != nil {
		dc.DrawString("due "+e.DueDate.Format("2006-01-02"), x+10, line)
		line += 16
	}

	// Progress bar along the bottom edge for topic-like cards
	if e.Type == plan.TypeTopic || e.Type == plan.TypeSubtopic {
		barW := e.Width - 20
		dc.SetRGBA(1, 1, 1, 0.35)
		dc.DrawRectangle(x+10, y+e.Height-16, barW, 6)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawRectangle(x+10, y+e.Height-16, barW*float64(e.Progress)/100, 6)
		dc.Fill()
	}
}

// sortByZ returns the elements ordered back to front.
func sortByZ(elements []*plan.CanvasElement) []*plan.CanvasElement {
	out := make([]*plan.CanvasElement, len(elements))
	copy(out, elements)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ZIndex > out[j].ZIndex; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
