package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pigeonworks-llc/bookkeeper/pkg/billing"
	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
)

var (
	customerName     string
	customerABN      string
	customerAddress1 string
	customerAddress2 string
	customerStart    int64
)

// customerCmd groups customer commands.
var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

var customerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a customer",
	Long: `Add a customer. Invoice numbers for the customer start at --start
(default 1) and are zero-padded to four digits.

Example:
  bookkeeper customer add --name "Acme Pty Ltd" --abn "98 765 432 109" \
    --address1 "1 Example St" --address2 "Sydney NSW 2000"`,
	Args: cobra.NoArgs,
	Run:  runCustomerAdd,
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	Args:  cobra.NoArgs,
	Run:   runCustomerList,
}

var customerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a customer and the next invoice number",
	Args:  cobra.ExactArgs(1),
	Run:   runCustomerShow,
}

func init() {
	customerAddCmd.Flags().StringVar(&customerName, "name", "", "customer name (required)")
	customerAddCmd.Flags().StringVar(&customerABN, "abn", "", "customer ABN")
	customerAddCmd.Flags().StringVar(&customerAddress1, "address1", "", "first address line")
	customerAddCmd.Flags().StringVar(&customerAddress2, "address2", "", "second address line")
	customerAddCmd.Flags().Int64Var(&customerStart, "start", 1, "first invoice number")
	_ = customerAddCmd.MarkFlagRequired("name")

	customerCmd.AddCommand(customerAddCmd)
	customerCmd.AddCommand(customerListCmd)
	customerCmd.AddCommand(customerShowCmd)
}

func runCustomerAdd(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	id, err := db.NewCustomerStore(a.conn).Create(db.Customer{
		Name:              customerName,
		ABN:               customerABN,
		AddressLine1:      customerAddress1,
		AddressLine2:      customerAddress2,
		NextInvoiceNumber: customerStart,
	})
	exitOnError(err, "failed to add customer")

	log.Info("Customer added", zap.Int64("id", id), zap.String("name", customerName))
	fmt.Printf("Added customer %d: %s\n", id, customerName)
}

func runCustomerList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	customers, err := db.NewCustomerStore(a.conn).List()
	exitOnError(err, "failed to list customers")

	printTitle("Customers")
	if len(customers) == 0 {
		printEmpty("customers")
		return
	}

	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.ABN,
			billing.FormatInvoiceNumber(c.NextInvoiceNumber),
		})
	}
	fmt.Print(renderTable([]string{"ID", "NAME", "ABN", "NEXT #"}, rows))
}

func runCustomerShow(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	exitOnError(err, "invalid customer")

	a := openApp()
	defer a.Close()

	c, err := db.NewCustomerStore(a.conn).Get(id)
	exitOnError(err, "failed to get customer")

	printTitle(c.Name)
	fmt.Print(renderTable([]string{"FIELD", "VALUE"}, [][]string{
		{"ID", strconv.FormatInt(c.ID, 10)},
		{"ABN", c.ABN},
		{"Address", c.AddressLine1},
		{"", c.AddressLine2},
		{"Next invoice", billing.FormatInvoiceNumber(c.NextInvoiceNumber)},
	}))
}
