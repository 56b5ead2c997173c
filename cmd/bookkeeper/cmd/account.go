package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

var (
	accountName    string
	accountBSB     string
	accountAcc     string
	accountDefault bool
)

// accountCmd groups payment account commands.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage payment accounts printed on invoices",
}

var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a payment account",
	Long: `Add a payment account. With --default it becomes the only default
account and is printed on new invoices unless --account is given.

Example:
  bookkeeper account add --name "Operating" --bsb "062 000" --acc "1234 5678" --default`,
	Args: cobra.NoArgs,
	Run:  runAccountAdd,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payment accounts",
	Args:  cobra.NoArgs,
	Run:   runAccountList,
}

var accountDefaultCmd = &cobra.Command{
	Use:   "set-default <id>",
	Short: "Make an account the default",
	Args:  cobra.ExactArgs(1),
	Run:   runAccountSetDefault,
}

var accountLegacyCmd = &cobra.Command{
	Use:   "legacy",
	Short: "Set the single-account bank settings",
	Long: `Set the bank settings used before payment accounts existed. They are
only printed when no default payment account is set. Empty fields fall back
to the built-in placeholder.`,
	Args: cobra.NoArgs,
	Run:  runAccountLegacy,
}

var accountShowDefaultCmd = &cobra.Command{
	Use:   "show-default",
	Short: "Show the bank details new invoices will print",
	Args:  cobra.NoArgs,
	Run:   runAccountShowDefault,
}

func init() {
	for _, c := range []*cobra.Command{accountAddCmd, accountLegacyCmd} {
		c.Flags().StringVar(&accountName, "name", "", "account name")
		c.Flags().StringVar(&accountBSB, "bsb", "", "BSB")
		c.Flags().StringVar(&accountAcc, "acc", "", "account number")
	}
	accountAddCmd.Flags().BoolVar(&accountDefault, "default", false, "make this the default account")
	_ = accountAddCmd.MarkFlagRequired("name")

	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountDefaultCmd)
	accountCmd.AddCommand(accountLegacyCmd)
	accountCmd.AddCommand(accountShowDefaultCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	id, err := a.service.AddAccount(db.PaymentAccount{
		Name: accountName,
		BSB:  accountBSB,
		Acc:  accountAcc,
	}, accountDefault)
	exitOnError(err, "failed to add payment account")

	fmt.Printf("Added payment account %d: %s\n", id, accountName)
}

func runAccountList(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	accounts, err := a.service.ListAccounts()
	exitOnError(err, "failed to list payment accounts")

	printTitle("Payment accounts")
	if len(accounts) == 0 {
		printEmpty("payment accounts")
		return
	}

	rows := make([][]string, 0, len(accounts))
	for _, acc := range accounts {
		def := ""
		if acc.IsDefault {
			def = goodStyle.Render("*")
		}
		rows = append(rows, []string{strconv.FormatInt(acc.ID, 10), acc.Name, acc.BSB, acc.Acc, def})
	}
	fmt.Print(renderTable([]string{"ID", "NAME", "BSB", "ACC", "DEFAULT"}, rows))
}

func runAccountSetDefault(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	exitOnError(err, "invalid payment account")

	a := openApp()
	defer a.Close()

	err = a.service.SetDefaultAccount(id)
	exitOnError(err, "failed to set default account")

	fmt.Printf("Payment account %d is now the default\n", id)
}

func runAccountLegacy(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	err := a.service.SetLegacyBank(document.BankAccount{
		Name:          accountName,
		RoutingCode:   accountBSB,
		AccountNumber: accountAcc,
	})
	exitOnError(err, "failed to save legacy bank settings")

	fmt.Println("Legacy bank settings saved")
}

func runAccountShowDefault(cmd *cobra.Command, args []string) {
	a := openApp()
	defer a.Close()

	bank, source, err := a.service.DefaultBank()
	exitOnError(err, "failed to resolve default bank")

	printTitle("Default bank details")
	fmt.Print(renderTable([]string{"FIELD", "VALUE"}, [][]string{
		{"Account Name", bank.Name},
		{"BSB", bank.RoutingCode},
		{"ACC", bank.AccountNumber},
		{"Source", mutedStyle.Render(string(source))},
	}))
}
