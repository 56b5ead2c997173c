package billing

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pigeonworks-llc/bookkeeper/pkg/archive"
	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
	"github.com/pigeonworks-llc/bookkeeper/pkg/pathutil"
)

var fixedNow = time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fixture struct {
	conn       *db.Connection
	service    *Service
	archive    *archive.FileSystemRepository
	customerID int64
}

func newFixture(t *testing.T, renderer Renderer) *fixture {
	t.Helper()
	root := t.TempDir()
	paths := pathutil.New(pathutil.Config{Root: root})

	conn, err := db.Open(paths.GetDatabasePath())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := zaptest.NewLogger(t)
	if renderer == nil {
		renderer = document.NewComposer(
			document.WithLogger(logger),
			document.WithClock(fixedClock),
			document.WithCompression(false),
		)
	}

	repo := archive.NewFileSystemRepository(paths)
	service := NewService(conn, renderer, repo,
		WithSender(document.SenderProfile{TaxID: "12 345 678 901", Phone: "+61 400 000 000", Email: "finance@example.com.au"}),
		WithLogo(false),
		WithLogger(logger),
		WithClock(fixedClock),
	)

	customerID, err := db.NewCustomerStore(conn).Create(db.Customer{
		Name:         "Acme Pty Ltd",
		ABN:          "98 765 432 109",
		AddressLine1: "1 Example St",
		AddressLine2: "Sydney NSW 2000",
	})
	require.NoError(t, err)

	return &fixture{conn: conn, service: service, archive: repo, customerID: customerID}
}

func consulting() []document.LineItem {
	return []document.LineItem{
		{Quantity: 2, Description: "Consulting", UnitPrice: decimal.RequireFromString("50.00")},
	}
}

func readPDF(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	return data
}

func shows(t *testing.T, pdf []byte, text string) {
	t.Helper()
	assert.True(t, bytes.Contains(pdf, []byte("("+text+") Tj")), "expected %q in document", text)
}

func TestCreateInvoice(t *testing.T) {
	f := newFixture(t, nil)

	inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
	require.NoError(t, err)

	assert.Equal(t, "0001", inv.InvoiceNumber)
	assert.Equal(t, "01/02/2026", inv.Date)
	assert.Equal(t, "100.00", inv.Total.StringFixed(2))
	assert.Equal(t, db.StatusUnpaid, inv.Status)
	assert.Equal(t, f.archive.Path(document.KindInvoice, archive.Ref{CustomerID: f.customerID, Number: "0001"}), inv.PDFPath)

	// No accounts and no legacy settings: the fallback is snapshotted.
	assert.Equal(t, document.FallbackBank.Name, inv.BankName)
	assert.Equal(t, document.FallbackBank.RoutingCode, inv.BankBSB)

	pdf := readPDF(t, inv.PDFPath)
	shows(t, pdf, "INVOICE NO. #0001")
	shows(t, pdf, "Acme Pty Ltd")
	shows(t, pdf, "$ 100.00 AUD")

	stored, err := db.NewInvoiceStore(f.conn).Get(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.PDFPath, stored.PDFPath)

	items, err := db.NewInvoiceStore(f.conn).Items(inv.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Consulting", items[0].Description)

	customer, err := db.NewCustomerStore(f.conn).Get(f.customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), customer.NextInvoiceNumber)

	next, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Date: "15/02/2026", Items: consulting()})
	require.NoError(t, err)
	assert.Equal(t, "0002", next.InvoiceNumber)
	assert.Equal(t, "15/02/2026", next.Date)
}

func TestCreateInvoice_Validation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name  string
		items []document.LineItem
		want  error
	}{
		{name: "no items", items: nil, want: ErrNoLineItems},
		{name: "negative quantity", items: []document.LineItem{{Quantity: -1, UnitPrice: decimal.NewFromInt(1)}}, want: ErrInvalidLineItem},
		{name: "negative price", items: []document.LineItem{{Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, want: ErrInvalidLineItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: tt.items})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: 404, Items: consulting()})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

type failingRenderer struct{}

func (failingRenderer) RenderBytes(document.RenderRequest) ([]byte, error) {
	return nil, errors.New("renderer exploded")
}

func TestCreateInvoice_RenderFailureRollsBack(t *testing.T) {
	f := newFixture(t, failingRenderer{})

	_, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderer exploded")

	invoices, err := f.service.ListInvoices()
	require.NoError(t, err)
	assert.Empty(t, invoices)

	customer, err := db.NewCustomerStore(f.conn).Get(f.customerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.NextInvoiceNumber)
}

func TestCreateInvoice_BankSelection(t *testing.T) {
	t.Run("legacy settings when no default account", func(t *testing.T) {
		f := newFixture(t, nil)
		require.NoError(t, f.service.SetLegacyBank(document.BankAccount{Name: "Old Bank", RoutingCode: "111 111"}))

		inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
		require.NoError(t, err)
		assert.Equal(t, "Old Bank", inv.BankName)
		assert.Equal(t, "111 111", inv.BankBSB)
		assert.Equal(t, document.FallbackBank.AccountNumber, inv.BankAcc)
		shows(t, readPDF(t, inv.PDFPath), "Account Name: Old Bank")
	})

	t.Run("default account outranks legacy settings", func(t *testing.T) {
		f := newFixture(t, nil)
		require.NoError(t, f.service.SetLegacyBank(document.BankAccount{Name: "Old Bank", RoutingCode: "111 111", AccountNumber: "999"}))
		_, err := f.service.AddAccount(db.PaymentAccount{Name: "Operating", BSB: "062 000"}, true)
		require.NoError(t, err)

		inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
		require.NoError(t, err)
		assert.Equal(t, "Operating", inv.BankName)
		assert.Equal(t, "062 000", inv.BankBSB)
		// Legacy is not consulted at all once a default exists.
		assert.Equal(t, document.FallbackBank.AccountNumber, inv.BankAcc)
	})

	t.Run("explicit account", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.service.AddAccount(db.PaymentAccount{Name: "Operating", BSB: "062 000", Acc: "1111"}, true)
		require.NoError(t, err)
		savings, err := f.service.AddAccount(db.PaymentAccount{Name: "Savings", Acc: "2222"}, false)
		require.NoError(t, err)

		inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting(), AccountID: savings})
		require.NoError(t, err)
		assert.Equal(t, "Savings", inv.BankName)
		assert.Equal(t, "062 000", inv.BankBSB)
		assert.Equal(t, "2222", inv.BankAcc)
	})

	t.Run("unknown explicit account", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting(), AccountID: 77})
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestTogglePaid(t *testing.T) {
	f := newFixture(t, nil)
	inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: []document.LineItem{
		{Quantity: 3, Description: "Widgets", UnitPrice: decimal.RequireFromString("8.00")},
	}})
	require.NoError(t, err)

	status, receipt, err := f.service.TogglePaid(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusPaid, status)
	assert.Equal(t, f.archive.Path(document.KindReceipt, archive.Ref{CustomerID: f.customerID, Number: "0001"}), receipt)

	pdf := readPDF(t, receipt)
	shows(t, pdf, "RECEIPT NO. #0001")
	shows(t, pdf, "PAID DATE 01/02/2026")
	shows(t, pdf, "$24.00 AUD")

	status, receipt, err = f.service.TogglePaid(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusUnpaid, status)
	assert.Empty(t, receipt)

	_, _, err = f.service.TogglePaid(999)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestTogglePaid_UsesBankSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.service.AddAccount(db.PaymentAccount{Name: "Operating", BSB: "062 000", Acc: "1111"}, true)
	require.NoError(t, err)

	inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
	require.NoError(t, err)

	// Changing accounts afterwards must not alter re-rendered documents.
	_, err = f.service.AddAccount(db.PaymentAccount{Name: "Newer", BSB: "999 999", Acc: "9999"}, true)
	require.NoError(t, err)

	paths, err := f.service.Rerender(inv.ID)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	shows(t, readPDF(t, paths[0]), "Account Name: Operating")
}

func TestRerender(t *testing.T) {
	f := newFixture(t, nil)
	inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
	require.NoError(t, err)

	require.NoError(t, os.Remove(inv.PDFPath))
	paths, err := f.service.Rerender(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{inv.PDFPath}, paths)
	assert.FileExists(t, inv.PDFPath)

	_, _, err = f.service.TogglePaid(inv.ID)
	require.NoError(t, err)
	paths, err = f.service.Rerender(inv.ID)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	_, err = f.service.Rerender(999)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteInvoice(t *testing.T) {
	f := newFixture(t, nil)
	inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
	require.NoError(t, err)
	_, receipt, err := f.service.TogglePaid(inv.ID)
	require.NoError(t, err)

	removed, err := f.service.DeleteInvoice(inv.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{inv.PDFPath, receipt}, removed)
	assert.NoFileExists(t, inv.PDFPath)
	assert.NoFileExists(t, receipt)

	invoices, err := f.service.ListInvoices()
	require.NoError(t, err)
	assert.Empty(t, invoices)

	items, err := db.NewInvoiceStore(f.conn).Items(inv.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.service.DeleteInvoice(inv.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestListInvoices_NewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 3; i++ {
		_, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
		require.NoError(t, err)
	}

	invoices, err := f.service.ListInvoices()
	require.NoError(t, err)
	require.Len(t, invoices, 3)
	assert.Equal(t, "0003", invoices[0].InvoiceNumber)
	assert.Equal(t, "Acme Pty Ltd", invoices[0].CustomerName)
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "0001", FormatInvoiceNumber(1))
	assert.Equal(t, "0420", FormatInvoiceNumber(420))
	assert.Equal(t, "12345", FormatInvoiceNumber(12345))
}

func TestNewService_Defaults(t *testing.T) {
	repo := archive.NewFileSystemRepository(pathutil.New(pathutil.Config{Root: filepath.Join(t.TempDir(), "x")}))
	s := NewService(nil, failingRenderer{}, repo, WithLogger(nil), WithClock(nil))
	assert.NotNil(t, s.logger)
	assert.NotNil(t, s.now)
	assert.True(t, s.includeLogo)
	assert.Equal(t, document.DefaultAccentColor, s.accentColor)
}

func TestRenderRequest(t *testing.T) {
	f := newFixture(t, nil)
	inv, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
	require.NoError(t, err)

	req, err := f.service.RenderRequest(inv.ID, document.KindReceipt)
	require.NoError(t, err)
	assert.Equal(t, document.KindReceipt, req.Meta.Kind)
	assert.Equal(t, "0001", req.Meta.Number)
	assert.Equal(t, "Acme Pty Ltd", req.Customer.Name)
	assert.Equal(t, "98 765 432 109", req.Customer.TaxID)
	require.Len(t, req.Items, 1)
	assert.Equal(t, inv.BankName, req.ResolvedBank().Name)

	out := filepath.Join(t.TempDir(), "preview.pdf")
	require.NoError(t, document.NewComposer(document.WithCompression(false)).RenderFile(out, req))
	shows(t, readPDF(t, out), "RECEIPT NO. #0001")
}

func TestDeleteInvoice_KeepsOtherCustomersDocuments(t *testing.T) {
	f := newFixture(t, nil)
	otherID, err := db.NewCustomerStore(f.conn).Create(db.Customer{Name: "Globex Corporation"})
	require.NoError(t, err)

	first, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: f.customerID, Items: consulting()})
	require.NoError(t, err)
	second, err := f.service.CreateInvoice(CreateInvoiceRequest{CustomerID: otherID, Items: consulting()})
	require.NoError(t, err)

	// Both customers start their numbering at 0001.
	assert.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.NotEqual(t, first.PDFPath, second.PDFPath)
	shows(t, readPDF(t, first.PDFPath), "Acme Pty Ltd")
	shows(t, readPDF(t, second.PDFPath), "Globex Corporation")

	removed, err := f.service.DeleteInvoice(second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second.PDFPath}, removed)

	stored, err := db.NewInvoiceStore(f.conn).Get(first.ID)
	require.NoError(t, err)
	assert.FileExists(t, stored.PDFPath)
	shows(t, readPDF(t, stored.PDFPath), "Acme Pty Ltd")
}
