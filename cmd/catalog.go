package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pottingshed/verdant/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the garden's slot and object catalog",
}

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the slot categories and object definitions",
		Long: `Prints the catalog that the daemon would use: the built-in
defaults, or the file given with --file.`,
		RunE: runCatalogShow,
	}
	showCmd.Flags().String("file", "", "catalog TOML file (default: built-in catalog)")

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a catalog TOML file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogValidate,
	}

	catalogCmd.AddCommand(showCmd)
	catalogCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "categories (%d slots total):\n", cat.TotalSlots())
	for _, name := range cat.Categories() {
		slots := cat.SlotsOf(name)
		fmt.Fprintf(out, "  %-12s %d slots (%s .. %s)\n", name, len(slots), slots[0], slots[len(slots)-1])
	}

	fmt.Fprintln(out, "objects:")
	for _, def := range cat.Objects() {
		line := fmt.Sprintf("  %-4s %-14s permitted: %s", def.ID, def.Name, strings.Join(def.Permitted, ", "))
		if def.HasPreferred() {
			line += fmt.Sprintf(" (prefers %s)", def.Preferred)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d categories, %d slots, %d objects\n",
		len(cat.Categories()), cat.TotalSlots(), len(cat.Objects()))
	return nil
}
