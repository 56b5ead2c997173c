package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const fontFamily = "Helvetica"

type rgb struct{ r, g, b int }

var (
	black = rgb{0, 0, 0}
	white = rgb{255, 255, 255}
)

// Composer lays out invoices and receipts.
type Composer struct {
	logger   *zap.Logger
	logoPath string
	now      func() time.Time
	compress bool
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger used for non-fatal render problems.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLogoPath sets the image drawn in the header when a request includes the logo.
func WithLogoPath(path string) Option {
	return func(c *Composer) {
		c.logoPath = path
	}
}

// WithClock overrides the clock used for the receipt paid date and PDF timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		if now != nil {
			c.now = now
		}
	}
}

// WithCompression toggles PDF stream compression (enabled by default).
func WithCompression(enabled bool) Option {
	return func(c *Composer) {
		c.compress = enabled
	}
}

// NewComposer creates a Composer.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{
		logger:   zap.NewNop(),
		now:      time.Now,
		compress: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RenderFile renders req to path. The file is only written once the whole
// document has been laid out, so a failed render leaves an existing file untouched.
func (c *Composer) RenderFile(path string, req RenderRequest) error {
	data, err := c.RenderBytes(req)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	c.logger.Info("Document written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// RenderBytes renders req into memory.
func (c *Composer) RenderBytes(req RenderRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render lays out req and writes the PDF to w.
func (c *Composer) Render(w io.Writer, req RenderRequest) error {
	kind := req.Meta.Kind
	if kind == "" {
		kind = KindInvoice
	}
	if kind != KindInvoice && kind != KindReceipt {
		return fmt.Errorf("unknown document kind %q", kind)
	}

	now := c.now()
	s := newSheet(c.accent(req.AccentColor), c.compress, now)
	s.pdf.SetTitle(fmt.Sprintf("%s %s", strings.ToUpper(string(kind)), req.Meta.Number), true)

	var logo Logo
	if req.IncludeLogo {
		logo = LoadLogo(c.logoPath)
		if !logo.Available() {
			c.logger.Warn("Logo unavailable, rendering without it", zap.Error(logo.Reason))
		}
	}

	s.header(req.Sender, logo, c.logger)
	s.title(kind, req.Meta, now)
	s.recipient(kind, req.Customer)
	s.table(req.Items)

	subtotal := Subtotal(req.Items)
	switch kind {
	case KindInvoice:
		s.invoiceTotals(subtotal)
		s.paymentBlock(req.ResolvedBank())
		s.invoiceFooter()
	case KindReceipt:
		s.receiptTotals(subtotal)
		s.receiptFooter()
	}

	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render %s %s: %w", kind, req.Meta.Number, err)
	}

	c.logger.Debug("Document rendered",
		zap.String("kind", string(kind)),
		zap.String("number", req.Meta.Number),
		zap.Int("items", len(req.Items)),
		zap.Int("pages", s.pdf.PageCount()),
	)
	return nil
}

func (c *Composer) accent(hex string) rgb {
	if hex == "" {
		hex = DefaultAccentColor
	}
	color, err := parseHexColor(hex)
	if err != nil {
		c.logger.Warn("Invalid accent color, using default", zap.String("color", hex), zap.Error(err))
		color, _ = parseHexColor(DefaultAccentColor)
	}
	return color
}

func parseHexColor(hex string) (rgb, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return rgb{}, fmt.Errorf("expected 6 hex digits, got %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return rgb{int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)}, nil
}

// sheet draws onto the PDF using bottom-up coordinates and owns the cursor.
type sheet struct {
	pdf    *fpdf.Fpdf
	cursor *Cursor
	accent rgb
	tr     func(string) string
}

func newSheet(accent rgb, compress bool, now time.Time) *sheet {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(LeftMargin, TopMargin, PageWidth-RightMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetCreator("bookkeeper", false)

	s := &sheet{
		pdf:    pdf,
		cursor: NewCursor(),
		accent: accent,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.AddPage()
	return s
}

func (s *sheet) newPage() {
	s.pdf.AddPage()
	s.cursor.Reset()
}

// ensure starts a new page unless h points fit above the bottom margin.
func (s *sheet) ensure(h float64) bool {
	if s.cursor.Fits(h) {
		return false
	}
	s.newPage()
	return true
}

func (s *sheet) font(style string, size float64) {
	s.pdf.SetFont(fontFamily, style, size)
}

func (s *sheet) textColor(c rgb) {
	s.pdf.SetTextColor(c.r, c.g, c.b)
}

func (s *sheet) text(x, y float64, str string) {
	s.pdf.Text(x, PageHeight-y, s.tr(str))
}

func (s *sheet) textRight(x, y float64, str string) {
	str = s.tr(str)
	s.pdf.Text(x-s.pdf.GetStringWidth(str), PageHeight-y, str)
}

func (s *sheet) textCentred(x, y float64, str string) {
	str = s.tr(str)
	s.pdf.Text(x-s.pdf.GetStringWidth(str)/2, PageHeight-y, str)
}

func (s *sheet) fillRect(x, y, w, h float64, c rgb) {
	s.pdf.SetFillColor(c.r, c.g, c.b)
	s.pdf.Rect(x, PageHeight-(y+h), w, h, "F")
}

func (s *sheet) rule(x1, x2, y float64) {
	s.pdf.SetDrawColor(s.accent.r, s.accent.g, s.accent.b)
	s.pdf.SetLineWidth(1)
	s.pdf.Line(x1, PageHeight-y, x2, PageHeight-y)
}

func (s *sheet) header(sender SenderProfile, logo Logo, logger *zap.Logger) {
	y := s.cursor.Y()
	s.textColor(black)
	s.font("B", 10)
	s.text(LeftMargin, y, "ABN: "+sender.TaxID)

	if logo.Available() {
		s.drawLogo(logo, y, logger)
	}

	s.cursor.Advance(0.5 * cm)
	s.font("", 10)
	s.text(LeftMargin, s.cursor.Y(), "Phone "+sender.Phone)
	s.cursor.Advance(0.5 * cm)
	s.text(LeftMargin, s.cursor.Y(), "Email "+sender.Email)
	s.cursor.Advance(1.5 * cm)
}

func (s *sheet) drawLogo(logo Logo, y float64, logger *zap.Logger) {
	data, err := logo.encodePNG()
	if err != nil {
		logger.Warn("Logo unavailable, rendering without it", zap.Error(err))
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	s.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(data))
	if !s.pdf.Ok() {
		logger.Warn("Logo unavailable, rendering without it", zap.Error(s.pdf.Error()))
		s.pdf.ClearError()
		return
	}

	h := LogoWidth * logo.AspectRatio()
	bottom := y - h + 0.3*cm
	s.pdf.ImageOptions("logo", RightMargin-LogoWidth, PageHeight-(bottom+h), LogoWidth, h, false, opts, 0, "")
}

func (s *sheet) title(kind Kind, meta InvoiceMeta, now time.Time) {
	y := s.cursor.Y()

	label, dateLabel := "INVOICE NO. #"+meta.Number, "DATE "+meta.Date
	if kind == KindReceipt {
		label, dateLabel = "RECEIPT NO. #"+meta.Number, "PAID DATE "+now.Format("02/01/2006")
	}

	s.textColor(s.accent)
	s.font("B", 18)
	s.text(LeftMargin, y, label)

	s.textColor(black)
	s.font("B", 10)
	s.textRight(RightMargin, y, dateLabel)

	s.cursor.Advance(1.5 * cm)
}

func (s *sheet) recipient(kind Kind, customer Customer) {
	label := "BILL TO"
	if kind == KindReceipt {
		label = "BILLED TO"
	}

	s.textColor(s.accent)
	s.font("B", 10)
	s.text(LeftMargin, s.cursor.Y(), label)
	s.cursor.Advance(0.6 * cm)

	s.textColor(black)
	s.font("", 10)
	for i, line := range []string{customer.Name, customer.AddressLine1, customer.AddressLine2, "ABN " + customer.TaxID} {
		if i > 0 {
			s.cursor.Advance(0.5 * cm)
		}
		s.text(LeftMargin, s.cursor.Y(), line)
	}
	s.cursor.Advance(1.5 * cm)
}

func (s *sheet) tableHeader() {
	y := s.cursor.Y()
	s.fillRect(LeftMargin-0.2*cm, y-0.2*cm, PageWidth-4.0*cm+0.4*cm, TableHeaderHeight, s.accent)

	s.textColor(white)
	s.font("B", 10)
	textY := y + 0.1*cm
	s.text(ColQuantity, textY, "QUANTITY")
	s.text(ColDescription, textY, "DESCRIPTION")
	s.text(ColUnitPrice, textY, "UNIT PRICE")
	s.text(ColTotal, textY, "TOTAL")

	s.cursor.Advance(TableHeaderHeight)
	s.textColor(black)
	s.font("", 10)
}

func (s *sheet) table(items []LineItem) {
	s.ensure(TableHeaderHeight + RowHeight(1))
	s.tableHeader()

	perPage := RowLinesPerPage()
	for _, item := range items {
		lines := Wrap(item.Description, DescriptionWidth)
		// A description taller than a page continues on the next one.
		for start := 0; start < len(lines); start += perPage {
			chunk := lines[start:min(start+perPage, len(lines))]
			if s.ensure(RowHeight(len(chunk))) {
				s.tableHeader()
			}
			s.itemRow(item, chunk, start == 0)
		}
	}
}

// itemRow draws one row. The row advances by its wrapped line count, not a fixed height.
// Continuation chunks of a split row carry only description lines.
func (s *sheet) itemRow(item LineItem, lines []string, amounts bool) {
	y := s.cursor.Y()
	if amounts {
		s.text(ColQuantity, y, strconv.FormatInt(item.Quantity, 10))
		s.text(ColUnitPrice, y, FormatMoney(item.UnitPrice))
		s.text(ColTotal, y, FormatMoney(item.LineTotal()))
	}

	for i, line := range lines {
		s.text(ColDescription, y-float64(i)*LineHeight, line)
	}
	s.cursor.Advance(RowHeight(len(lines)))
}

func (s *sheet) invoiceTotals(subtotal decimal.Decimal) {
	salesTax := decimal.Zero

	s.ensure(0.2*cm + 1.2*cm)
	s.cursor.Advance(0.2 * cm)
	s.rule(ColUnitPrice, RightMargin, s.cursor.Y()+0.4*cm)

	s.textColor(black)
	s.font("B", 10)
	s.text(ColUnitPrice, s.cursor.Y(), "SUBTOTAL")
	s.textRight(RightMargin, s.cursor.Y(), FormatAmount(subtotal))
	s.cursor.Advance(0.6 * cm)

	s.text(ColUnitPrice, s.cursor.Y(), "SALES TAX")
	s.textRight(RightMargin, s.cursor.Y(), FormatAmount(salesTax))
	s.cursor.Advance(0.6 * cm)

	s.rule(ColUnitPrice, RightMargin, s.cursor.Y()+0.4*cm)
	s.textColor(s.accent)
	s.font("B", 12)
	s.text(ColUnitPrice, s.cursor.Y(), "GRAND TOTAL")
	s.textRight(RightMargin, s.cursor.Y(), FormatTotal(subtotal.Add(salesTax)))
}

func (s *sheet) paymentBlock(bank BankAccount) {
	const gap, body = 3.0 * cm, 1.6 * cm
	if !s.ensure(gap + body) {
		s.cursor.Advance(gap)
	}

	s.textColor(black)
	s.font("B", 10)
	s.text(LeftMargin, s.cursor.Y(), "Bank transfer (Preferred)")
	s.cursor.Advance(0.6 * cm)

	s.font("", 10)
	s.text(LeftMargin, s.cursor.Y(), "Account Name: "+bank.Name)
	s.cursor.Advance(0.5 * cm)
	s.text(LeftMargin, s.cursor.Y(), "BSB: "+bank.RoutingCode)
	s.cursor.Advance(0.5 * cm)
	s.text(LeftMargin, s.cursor.Y(), "ACC: "+bank.AccountNumber)
}

func (s *sheet) invoiceFooter() {
	const gap = 2.0 * cm
	if !s.ensure(gap) {
		s.cursor.Advance(gap)
	}
	s.font("B", 12)
	s.textColor(s.accent)
	s.text(LeftMargin, s.cursor.Y(), "Thank you for your business!")
}

func (s *sheet) receiptTotals(subtotal decimal.Decimal) {
	s.ensure(0.2*cm + 0.6*cm)
	s.cursor.Advance(0.2 * cm)
	s.rule(ColUnitPrice, RightMargin, s.cursor.Y()+0.4*cm)

	s.textColor(black)
	s.font("B", 10)
	s.text(ColUnitPrice, s.cursor.Y(), "TOTAL PAID")
	s.textRight(RightMargin, s.cursor.Y(), FormatMoney(subtotal))
	s.cursor.Advance(0.6 * cm)

	s.textColor(s.accent)
	s.font("B", 12)
	s.text(ColUnitPrice, s.cursor.Y(), "BALANCE DUE")
	s.textRight(RightMargin, s.cursor.Y(), FormatTotal(decimal.Zero))
}

func (s *sheet) receiptFooter() {
	const gap = 3.0 * cm
	if !s.ensure(gap) {
		s.cursor.Advance(gap)
	}
	s.font("B", 14)
	s.textColor(s.accent)
	s.textCentred(PageWidth/2, s.cursor.Y(), "PAYMENT RECEIVED - THANK YOU")
}
