package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	t.Run("starts below the top margin", func(t *testing.T) {
		c := NewCursor()
		assert.InDelta(t, PageHeight-TopMargin, c.Y(), 1e-9)
	})

	t.Run("only moves down", func(t *testing.T) {
		c := NewCursor()
		start := c.Y()
		c.Advance(-50)
		assert.Equal(t, start, c.Y())
		c.Advance(10)
		assert.InDelta(t, start-10, c.Y(), 1e-9)
	})

	t.Run("advance lines", func(t *testing.T) {
		c := NewCursor()
		start := c.Y()
		c.AdvanceLines(3)
		assert.InDelta(t, start-3*LineHeight, c.Y(), 1e-9)
	})

	t.Run("fits respects bottom margin", func(t *testing.T) {
		c := NewCursor()
		room := c.Y() - BottomMargin
		assert.True(t, c.Fits(room-0.01))
		assert.False(t, c.Fits(room+0.01))
	})

	t.Run("reset returns to top", func(t *testing.T) {
		c := NewCursor()
		c.Advance(300)
		c.Reset()
		assert.InDelta(t, PageHeight-TopMargin, c.Y(), 1e-9)
	})
}

func TestRowHeight(t *testing.T) {
	assert.InDelta(t, LineHeight+RowGap, RowHeight(1), 1e-9)
	assert.InDelta(t, 3*LineHeight+RowGap, RowHeight(3), 1e-9)
	assert.Equal(t, RowHeight(1), RowHeight(0))
}

func TestColumnsAreOrdered(t *testing.T) {
	assert.Less(t, ColQuantity, ColDescription)
	assert.Less(t, ColDescription, ColUnitPrice)
	assert.Less(t, ColUnitPrice, ColTotal)
	assert.Less(t, ColTotal, RightMargin)
}

func testSheet() *sheet {
	return newSheet(rgb{43, 87, 151}, false, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
}

func TestItemRow_VariableHeight(t *testing.T) {
	s := testSheet()
	s.font("", 10)

	long := LineItem{
		Quantity:    1,
		Description: strings.Repeat("word ", 24),
		UnitPrice:   decimal.NewFromInt(10),
	}
	short := LineItem{Quantity: 1, Description: "Service", UnitPrice: decimal.NewFromInt(10)}

	longLines := Wrap(long.Description, DescriptionWidth)
	require.Len(t, longLines, 3)

	before := s.cursor.Y()
	s.itemRow(long, longLines, true)
	assert.InDelta(t, 3*LineHeight+RowGap, before-s.cursor.Y(), 1e-9)

	before = s.cursor.Y()
	s.itemRow(short, Wrap(short.Description, DescriptionWidth), true)
	assert.InDelta(t, LineHeight+RowGap, before-s.cursor.Y(), 1e-9)
}

func TestTable_PaginatesOverflow(t *testing.T) {
	s := testSheet()

	items := make([]LineItem, 80)
	for i := range items {
		items[i] = LineItem{Quantity: 1, Description: "Hourly support", UnitPrice: decimal.NewFromInt(5)}
	}

	s.table(items)

	assert.Greater(t, s.pdf.PageCount(), 1)
	assert.True(t, s.cursor.Y() >= BottomMargin, "cursor crossed the bottom margin")
	require.NoError(t, s.pdf.Error())
}

func TestTable_SinglePageForFewItems(t *testing.T) {
	s := testSheet()
	s.table([]LineItem{{Quantity: 2, Description: "Consulting", UnitPrice: decimal.NewFromInt(50)}})
	assert.Equal(t, 1, s.pdf.PageCount())
}

func TestRowLinesPerPage(t *testing.T) {
	n := RowLinesPerPage()
	require.Greater(t, n, 1)

	c := NewCursor()
	c.Advance(TableHeaderHeight)
	assert.True(t, c.Fits(RowHeight(n)), "a full chunk must fit below the header band")
	assert.False(t, c.Fits(RowHeight(n+1)))
}

func TestTable_SplitsRowTallerThanPage(t *testing.T) {
	s := testSheet()

	item := LineItem{
		Quantity:    1,
		Description: strings.Repeat("lorem ipsum ", 400) + "closing-remark",
		UnitPrice:   decimal.NewFromInt(5),
	}
	lines := Wrap(item.Description, DescriptionWidth)
	require.Greater(t, len(lines), 2*RowLinesPerPage())

	s.table([]LineItem{item})

	assert.Equal(t, 3, s.pdf.PageCount())
	assert.True(t, s.cursor.Y() >= BottomMargin, "cursor crossed the bottom margin: %.1f", s.cursor.Y())

	var buf bytes.Buffer
	require.NoError(t, s.pdf.Output(&buf))
	out := buf.Bytes()

	// The tail of the description is drawn and the amounts are printed once.
	assert.True(t, bytes.Contains(out, []byte("closing-remark) Tj")))
	assert.Equal(t, 2, bytes.Count(out, []byte("($5.00 AUD) Tj")))
	// One header band per page.
	assert.Equal(t, 3, bytes.Count(out, []byte("(QUANTITY) Tj")))
}

func TestRender_TallRowKeepsTotals(t *testing.T) {
	req := RenderRequest{
		Customer: Customer{Name: "Acme Pty Ltd"},
		Meta:     InvoiceMeta{Number: "0007", Date: "01/02/2026", Kind: KindInvoice},
		Items: []LineItem{
			{Quantity: 1, Description: strings.Repeat("lorem ipsum ", 400), UnitPrice: decimal.NewFromInt(5)},
			{Quantity: 2, Description: "Consulting", UnitPrice: decimal.NewFromInt(50)},
		},
	}

	out, err := NewComposer(WithCompression(false)).RenderBytes(req)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(out, []byte("(GRAND TOTAL) Tj")))
	assert.True(t, bytes.Contains(out, []byte("($ 105.00 AUD) Tj")))
}
