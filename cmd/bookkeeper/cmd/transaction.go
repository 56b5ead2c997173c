package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

var (
	txType     string
	txAmount   string
	txDate     string
	txCategory string
	txNotes    string
)

// transactionCmd groups income and cost commands.
var transactionCmd = &cobra.Command{
	Use:     "transaction",
	Aliases: []string{"tx"},
	Short:   "Log income and costs",
}

var transactionAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log an income or cost entry",
	Long: `Log an income or cost entry.

Example:
  bookkeeper transaction add --type cost --amount 19.99 --category software --notes "Domain renewal"`,
	Args: cobra.NoArgs,
	Run:  runTransactionAdd,
}

var transactionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged entries, newest first",
	Args:  cobra.NoArgs,
	Run:   runTransactionList,
}

func init() {
	transactionAddCmd.Flags().StringVar(&txType, "type", "", "income or cost (required)")
	transactionAddCmd.Flags().StringVar(&txAmount, "amount", "", "amount (required)")
	transactionAddCmd.Flags().StringVar(&txDate, "date", "", "date YYYY-MM-DD (default today)")
	transactionAddCmd.Flags().StringVar(&txCategory, "category", "general", "category")
	transactionAddCmd.Flags().StringVar(&txNotes, "notes", "", "free-form notes")
	_ = transactionAddCmd.MarkFlagRequired("type")
	_ = transactionAddCmd.MarkFlagRequired("amount")

	transactionCmd.AddCommand(transactionAddCmd)
	transactionCmd.AddCommand(transactionListCmd)
}

func runTransactionAdd(cmd *cobra.Command, args []string) {
	typ, err := db.ParseTransactionType(txType)
	exitOnError(err, "invalid transaction")

	amount, err := parseAmount(txAmount)
	exitOnError(err, "invalid transaction")

	date := txDate
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		exitOnError(fmt.Errorf("date %q: want YYYY-MM-DD", date), "invalid transaction")
	}

	a := openApp()
	defer a.Close()

	id, err := db.NewTransactionStore(a.conn).Add(db.Transaction{
		Date:     date,
		Type:     typ,
		Amount:   amount,
		Category: txCategory,
		Notes:    txNotes,
	})
	exitOnError(err, "failed to log transaction")

	log.Info("Transaction logged", zap.Int64("id", id), zap.String("type", string(typ)), zap.String("amount", amount.StringFixed(2)))
	fmt.Printf("Logged %s of %s\n", typ, document.FormatMoney(amount))
}

func runTransactionList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	txs, err := db.NewTransactionStore(a.conn).List()
	exitOnError(err, "failed to list transactions")

	printTitle("Transactions")
	if len(txs) == 0 {
		printEmpty("transactions")
		return
	}

	rows := make([][]string, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.Date,
			string(t.Type),
			document.FormatMoney(t.Amount),
			t.Category,
			t.Notes,
		})
	}
	fmt.Print(renderTable([]string{"ID", "DATE", "TYPE", "AMOUNT", "CATEGORY", "NOTES"}, rows))
}
