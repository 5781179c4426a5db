package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

var (
	infoSource string
	infoAll    bool
	infoJSON   bool
)

var infoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details for one package",
	Long: `Shows what one source knows about a package: version, description,
size, license, maintainer and whether it is installed.

Flatpak applications that are not installed are looked up on Flathub.`,
	Example: `  archstore info firefox
  archstore info --source aur paru-bin
  archstore info -s flatpak --all org.mozilla.firefox`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoSource, "source", "s", string(domain.SourceOfficial), "source to ask: official, aur or flatpak")
	infoCmd.Flags().BoolVarP(&infoAll, "all", "a", false, "print every field the package tool reports")
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output details as JSON")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if packageService == nil {
		return errors.New("package service not configured")
	}

	source, err := domain.ParseSourceKind(infoSource)
	if err != nil {
		return err
	}

	d, err := packageService.Details(cmd.Context(), source, args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s has no package named %q", source.DisplayName(), args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get package details: %w", err)
	}

	if infoJSON {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	rows := detailRows(d)
	if infoAll {
		for _, f := range d.Fields {
			rows = append(rows, []string{f.Key, f.Value})
		}
	}
	cmd.Println(table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		String())
	return nil
}

// detailRows lists the named fields that have a value.
func detailRows(d domain.PackageDetails) [][]string {
	installed := "no"
	if d.Installed {
		installed = "yes"
	}
	rows := [][]string{
		{"Name", d.Name},
		{"Source", d.Source.DisplayName()},
		{"Installed", installed},
	}
	for _, f := range []struct{ key, value string }{
		{"Version", d.Version},
		{"Description", d.Description},
		{"URL", d.URL},
		{"License", d.License},
		{"Size", d.Size},
		{"Maintainer", d.Maintainer},
		{"Last Updated", d.LastUpdated},
	} {
		if f.value != "" {
			rows = append(rows, []string{f.key, f.value})
		}
	}
	return rows
}
