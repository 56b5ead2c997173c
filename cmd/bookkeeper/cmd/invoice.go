package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pigeonworks-llc/bookkeeper/pkg/billing"
	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

var (
	invoiceCustomer int64
	invoiceDate     string
	invoiceItems    []string
	invoiceAccount  int64
	renderOut       string
	renderReceipt   bool
)

// invoiceCmd groups invoice commands.
var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Create, list and track invoices",
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create and render a new invoice",
	Long: `Create an invoice for a customer and render Invoice_<customer>_<number>.pdf.

Each --item is "quantity|description|unit price". The bank details printed
on the invoice come from --account, otherwise the default payment account,
otherwise the legacy bank settings. They are stored with the invoice so
later re-renders print the same details.

Example:
  bookkeeper invoice create --customer 1 \
    --item "2|Consulting|50.00" --item "1|Travel|42.47"`,
	Args: cobra.NoArgs,
	Run:  runInvoiceCreate,
}

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices, newest first",
	Args:  cobra.NoArgs,
	Run:   runInvoiceList,
}

var invoiceToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle an invoice between unpaid and paid",
	Long: `Toggle an invoice between unpaid and paid. Marking an invoice paid
renders Receipt_<customer>_<number>.pdf from the stored line items.`,
	Args: cobra.ExactArgs(1),
	Run:  runInvoiceToggle,
}

var invoiceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an invoice, its line items and its documents",
	Args:  cobra.ExactArgs(1),
	Run:   runInvoiceDelete,
}

var invoiceRenderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Render an invoice again from stored data",
	Long: `Render the documents of a stored invoice again. Paid invoices also
get their receipt. With --out the document is written to that path instead
of the documents directory.`,
	Args: cobra.ExactArgs(1),
	Run:  runInvoiceRender,
}

var invoiceFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List rendered documents",
	Args:  cobra.NoArgs,
	Run:   runInvoiceFiles,
}

func init() {
	invoiceCreateCmd.Flags().Int64Var(&invoiceCustomer, "customer", 0, "customer id (required)")
	invoiceCreateCmd.Flags().StringVar(&invoiceDate, "date", "", "invoice date dd/mm/yyyy (default today)")
	invoiceCreateCmd.Flags().StringArrayVar(&invoiceItems, "item", nil, `line item "quantity|description|price" (repeatable)`)
	invoiceCreateCmd.Flags().Int64Var(&invoiceAccount, "account", 0, "payment account id (default account if omitted)")
	_ = invoiceCreateCmd.MarkFlagRequired("customer")

	invoiceRenderCmd.Flags().StringVar(&renderOut, "out", "", "write the document to this path")
	invoiceRenderCmd.Flags().BoolVar(&renderReceipt, "receipt", false, "with --out, render the receipt instead of the invoice")

	invoiceCmd.AddCommand(invoiceCreateCmd)
	invoiceCmd.AddCommand(invoiceListCmd)
	invoiceCmd.AddCommand(invoiceToggleCmd)
	invoiceCmd.AddCommand(invoiceDeleteCmd)
	invoiceCmd.AddCommand(invoiceRenderCmd)
	invoiceCmd.AddCommand(invoiceFilesCmd)
}

func runInvoiceCreate(cmd *cobra.Command, args []string) {
	items := make([]document.LineItem, 0, len(invoiceItems))
	for _, raw := range invoiceItems {
		item, err := parseItem(raw)
		exitOnError(err, "invalid line item")
		items = append(items, item)
	}

	a := openApp()
	defer a.Close()

	inv, err := a.service.CreateInvoice(billing.CreateInvoiceRequest{
		CustomerID: invoiceCustomer,
		Date:       invoiceDate,
		Items:      items,
		AccountID:  invoiceAccount,
	})
	exitOnError(err, "failed to create invoice")

	fmt.Printf("Invoice #%s for %s: %s\n", inv.InvoiceNumber, inv.CustomerName, document.FormatTotal(inv.Total))
	fmt.Printf("Written to %s\n", inv.PDFPath)
}

func runInvoiceList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	invoices, err := a.service.ListInvoices()
	exitOnError(err, "failed to list invoices")

	printTitle("Invoices")
	if len(invoices) == 0 {
		printEmpty("invoices")
		return
	}

	rows := make([][]string, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []string{
			strconv.FormatInt(inv.ID, 10),
			"#" + inv.InvoiceNumber,
			inv.Date,
			inv.CustomerName,
			document.FormatMoney(inv.Total),
			statusLabel(inv.Status),
			inv.BankName,
		})
	}
	fmt.Print(renderTable([]string{"ID", "NUMBER", "DATE", "CUSTOMER", "TOTAL", "STATUS", "ACCOUNT"}, rows))
}

func statusLabel(s db.InvoiceStatus) string {
	if s == db.StatusPaid {
		return goodStyle.Render("PAID")
	}
	return badStyle.Render("UNPAID")
}

func runInvoiceToggle(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	exitOnError(err, "invalid invoice")

	a := openApp()
	defer a.Close()

	status, receipt, err := a.service.TogglePaid(id)
	exitOnError(err, "failed to toggle invoice")

	fmt.Printf("Invoice %d is now %s\n", id, statusLabel(status))
	if receipt != "" {
		fmt.Printf("Receipt written to %s\n", receipt)
	}
}

func runInvoiceDelete(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	exitOnError(err, "invalid invoice")

	a := openApp()
	defer a.Close()

	removed, err := a.service.DeleteInvoice(id)
	exitOnError(err, "failed to delete invoice")

	fmt.Printf("Deleted invoice %d\n", id)
	for _, path := range removed {
		fmt.Printf("  removed %s\n", path)
	}
}

func runInvoiceRender(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	exitOnError(err, "invalid invoice")

	a := openApp()
	defer a.Close()

	if renderOut != "" {
		kind := document.KindInvoice
		if renderReceipt {
			kind = document.KindReceipt
		}
		req, err := a.service.RenderRequest(id, kind)
		exitOnError(err, "failed to load invoice")

		err = a.composer.RenderFile(renderOut, req)
		exitOnError(err, "failed to render document")

		log.Info("Document rendered", zap.Int64("id", id), zap.String("path", renderOut))
		fmt.Printf("Written to %s\n", renderOut)
		return
	}

	paths, err := a.service.Rerender(id)
	exitOnError(err, "failed to render invoice")

	for _, path := range paths {
		fmt.Printf("Written to %s\n", path)
	}
}

func runInvoiceFiles(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	names, err := a.archive.List()
	exitOnError(err, "failed to list documents")

	printTitle("Documents in " + a.paths.GetDocumentsDir())
	if len(names) == 0 {
		printEmpty("documents")
		return
	}
	for _, name := range names {
		fmt.Println(cellStyle.Render(name))
	}
}
