package render

import (
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// A4 raster at 150 DPI.
const (
	pageWidth  = 1240
	pageHeight = 1754
	marginX    = 90.0
	marginTop  = 80.0

	// New page whenever the cursor would pass 95% of page height. The break
	// check is per-row, not per-cell.
	breakFraction = 0.95
)

// layout owns the page stack and a vertical cursor. Every draw helper re-sets
// the font face on the current context because ensure may have swapped pages.
type layout struct {
	faces *faceSet
	pages []*gg.Context
	dc    *gg.Context
	y     float64
}

func newLayout(faces *faceSet) *layout {
	l := &layout{faces: faces}
	l.newPage()
	return l
}

func (l *layout) newPage() {
	dc := gg.NewContext(pageWidth, pageHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	l.pages = append(l.pages, dc)
	l.dc = dc
	l.y = marginTop
}

func (l *layout) breakLimit() float64 {
	return pageHeight * breakFraction
}

// ensure breaks the page when the next block of height h does not fit.
func (l *layout) ensure(h float64) {
	if l.y+h > l.breakLimit() {
		l.newPage()
	}
}

func (l *layout) contentWidth() float64 {
	return pageWidth - 2*marginX
}

func (l *layout) spacer(h float64) {
	l.y += h
}

func (l *layout) rule() {
	l.ensure(12)
	l.dc.SetLineWidth(1)
	l.dc.DrawLine(marginX, l.y, pageWidth-marginX, l.y)
	l.dc.Stroke()
	l.y += 12
}

func (l *layout) wrap(face font.Face, s string, width float64) []string {
	l.dc.SetFontFace(face)
	if s == "" {
		return []string{""}
	}
	return l.dc.WordWrap(s, width)
}

// para draws a wrapped paragraph at the left margin.
func (l *layout) para(face font.Face, s string, lineHeight float64) {
	lines := l.wrap(face, s, l.contentWidth())
	for _, line := range lines {
		l.ensure(lineHeight)
		l.dc.SetFontFace(face)
		l.dc.DrawString(line, marginX, l.y+lineHeight*0.75)
		l.y += lineHeight
	}
}

func (l *layout) heading(s string) {
	l.ensure(52)
	l.dc.SetFontFace(l.faces.heading)
	l.dc.DrawString(s, marginX, l.y+30)
	l.y += 40
	l.dc.SetLineWidth(2)
	l.dc.DrawLine(marginX, l.y, pageWidth-marginX, l.y)
	l.dc.Stroke()
	l.y += 14
}

// keyVal draws a labelled value with the value column wrapped.
func (l *layout) keyVal(label, value string) {
	const labelWidth = 300.0
	valueWidth := l.contentWidth() - labelWidth
	lines := l.wrap(l.faces.body, value, valueWidth)

	lineHeight := 28.0
	l.ensure(lineHeight * float64(len(lines)))
	l.dc.SetFontFace(l.faces.bodyBold)
	l.dc.DrawString(label, marginX, l.y+lineHeight*0.75)
	for _, line := range lines {
		l.dc.SetFontFace(l.faces.body)
		l.dc.DrawString(line, marginX+labelWidth, l.y+lineHeight*0.75)
		l.y += lineHeight
	}
}

// banner draws a full-width filled band with centered bold text, used for the
// condition-report outcome.
func (l *layout) banner(text string, ok bool) {
	const h = 64.0
	l.ensure(h + 12)
	if ok {
		l.dc.SetRGB(0.88, 0.96, 0.88)
	} else {
		l.dc.SetRGB(0.97, 0.87, 0.87)
	}
	l.dc.DrawRectangle(marginX, l.y, l.contentWidth(), h)
	l.dc.Fill()
	l.dc.SetRGB(0, 0, 0)
	l.dc.SetLineWidth(1.5)
	l.dc.DrawRectangle(marginX, l.y, l.contentWidth(), h)
	l.dc.Stroke()
	l.dc.SetFontFace(l.faces.heading)
	tw, _ := l.dc.MeasureString(text)
	l.dc.DrawString(text, marginX+(l.contentWidth()-tw)/2, l.y+h/2+10)
	l.y += h + 12
}
