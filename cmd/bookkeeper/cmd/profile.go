package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pigeonworks-llc/bookkeeper/pkg/profile"
)

// profileCmd lists the sender profile presets.
var profileCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List sender profile presets",
	Long: `List the sender profile presets. Built-in presets can be extended or
overridden with a YAML file named by BOOKKEEPER_PROFILES.`,
	Args: cobra.NoArgs,
	Run:  runProfiles,
}

func runProfiles(cmd *cobra.Command, args []string) {
	presets, err := profile.Load(cfg.Document.ProfilesPath)
	exitOnError(err, "failed to load sender profiles")

	active := cfg.Document.Profile
	if profileName != "" {
		active = profileName
	}

	printTitle("Sender profiles")
	rows := make([][]string, 0)
	for _, name := range presets.Names() {
		sp, err := presets.Lookup(name)
		exitOnError(err, "failed to read sender profile")

		marker := ""
		if name == active {
			marker = goodStyle.Render("*")
		}
		rows = append(rows, []string{name, sp.TaxID, sp.Phone, sp.Email, marker})
	}
	fmt.Print(renderTable([]string{"NAME", "ABN", "PHONE", "EMAIL", "ACTIVE"}, rows))
}
