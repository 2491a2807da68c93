package render

type tableColumn struct {
	Title  string
	Weight float64
}

const (
	cellPadding    = 8.0
	cellLineHeight = 22.0
	headerHeight   = 36.0
)

func (l *layout) columnWidths(cols []tableColumn) []float64 {
	total := 0.0
	for _, c := range cols {
		total += c.Weight
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = l.contentWidth() * c.Weight / total
	}
	return widths
}

func (l *layout) tableHeader(cols []tableColumn, widths []float64) {
	l.dc.SetRGB(0.9, 0.9, 0.9)
	l.dc.DrawRectangle(marginX, l.y, l.contentWidth(), headerHeight)
	l.dc.Fill()
	l.dc.SetRGB(0, 0, 0)

	x := marginX
	for i, c := range cols {
		l.dc.SetLineWidth(1)
		l.dc.DrawRectangle(x, l.y, widths[i], headerHeight)
		l.dc.Stroke()
		l.dc.SetFontFace(l.faces.bodyBold)
		l.dc.DrawString(c.Title, x+cellPadding, l.y+headerHeight*0.7)
		x += widths[i]
	}
	l.y += headerHeight
}

// table draws a bordered grid with the header row repeated after every page
// break. Row height follows the tallest wrapped cell.
func (l *layout) table(cols []tableColumn, rows [][]string) {
	widths := l.columnWidths(cols)

	l.ensure(headerHeight + cellLineHeight + 2*cellPadding)
	l.tableHeader(cols, widths)

	for _, row := range rows {
		wrapped := make([][]string, len(cols))
		maxLines := 1
		for i := range cols {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			wrapped[i] = l.wrap(l.faces.small, cell, widths[i]-2*cellPadding)
			if len(wrapped[i]) > maxLines {
				maxLines = len(wrapped[i])
			}
		}
		rowHeight := float64(maxLines)*cellLineHeight + 2*cellPadding

		if l.y+rowHeight > l.breakLimit() {
			l.newPage()
			l.tableHeader(cols, widths)
		}

		x := marginX
		for i := range cols {
			l.dc.SetLineWidth(1)
			l.dc.DrawRectangle(x, l.y, widths[i], rowHeight)
			l.dc.Stroke()
			l.dc.SetFontFace(l.faces.small)
			for j, line := range wrapped[i] {
				l.dc.DrawString(line, x+cellPadding, l.y+cellPadding+float64(j)*cellLineHeight+cellLineHeight*0.7)
			}
			x += widths[i]
		}
		l.y += rowHeight
	}
	l.spacer(16)
}
