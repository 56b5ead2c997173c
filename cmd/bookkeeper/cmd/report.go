package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

// reportCmd represents the profit and loss report command.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Display the profit and loss summary",
	Long: `Display total income, total costs and net profit across all
logged transactions.

Example:
  bookkeeper report`,
	Args: cobra.NoArgs,
	Run:  runReport,
}

func runReport(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	pl, err := db.NewTransactionStore(a.conn).ProfitLoss()
	exitOnError(err, "failed to compute profit and loss")

	net := document.FormatMoney(pl.Net())
	if pl.Net().IsNegative() {
		net = badStyle.Render(net)
	} else {
		net = goodStyle.Render(net)
	}

	printTitle("Profit & Loss")
	fmt.Print(renderTable([]string{"", "AMOUNT"}, [][]string{
		{"Total income", document.FormatMoney(pl.Income)},
		{"Total costs", document.FormatMoney(pl.Costs)},
		{"Net profit", net},
	}))
	fmt.Println()
}
