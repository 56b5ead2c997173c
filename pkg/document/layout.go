package document

// All lengths are in PDF points. Vertical positions are measured from the
// bottom edge of the page, so the cursor moves towards zero as content is drawn.
const (
	cm = 72.0 / 2.54

	PageWidth  = 595.2756
	PageHeight = 841.8898

	LeftMargin   = 2.0 * cm
	RightMargin  = PageWidth - 2.0*cm
	TopMargin    = 2.0 * cm
	BottomMargin = 2.0 * cm

	// Column x-positions of the itemised table.
	ColQuantity    = LeftMargin
	ColDescription = LeftMargin + 2.5*cm
	ColUnitPrice   = LeftMargin + 11.0*cm
	ColTotal       = LeftMargin + 14.5*cm

	// DescriptionWidth is the wrap width of the description column, in characters.
	DescriptionWidth = 42

	LineHeight        = 0.5 * cm
	RowGap            = 0.3 * cm
	TableHeaderHeight = 0.8 * cm
	LogoWidth         = 3.0 * cm
)

// RowHeight is the vertical advance of a table row whose description wraps to lines.
func RowHeight(lines int) float64 {
	if lines < 1 {
		lines = 1
	}
	return float64(lines)*LineHeight + RowGap
}

// RowLinesPerPage is the number of description lines that fit below the
// table header band on an empty page. Longer rows are split at this size.
func RowLinesPerPage() int {
	body := PageHeight - TopMargin - BottomMargin - TableHeaderHeight - RowGap
	n := int(body / LineHeight)
	if n < 1 {
		return 1
	}
	return n
}

// Cursor tracks the vertical write position on the current page.
type Cursor struct {
	y float64
}

// NewCursor returns a cursor at the top margin.
func NewCursor() *Cursor {
	c := &Cursor{}
	c.Reset()
	return c
}

// Y returns the current baseline.
func (c *Cursor) Y() float64 {
	return c.y
}

// Advance moves the cursor down by d. Negative distances are ignored.
func (c *Cursor) Advance(d float64) {
	if d > 0 {
		c.y -= d
	}
}

// AdvanceLines moves the cursor down by n line heights.
func (c *Cursor) AdvanceLines(n int) {
	c.Advance(float64(n) * LineHeight)
}

// Fits reports whether h more points can be consumed without crossing the bottom margin.
func (c *Cursor) Fits(h float64) bool {
	return c.y-h >= BottomMargin
}

// Reset moves the cursor back to the top margin, used when a page is added.
func (c *Cursor) Reset() {
	c.y = PageHeight - TopMargin
}
