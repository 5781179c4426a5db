package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

var (
	installedSources []string
	installedJSON    bool
)

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "List installed packages by source",
	Long: `Lists packages installed from the official repositories, the AUR and
Flatpak. Official packages come from pacman -Qn, AUR packages from the
helper's -Qm and Flatpak applications from flatpak list.

A source that cannot be listed is reported and the others are still shown.`,
	Example: `  archstore installed
  archstore installed -s aur -s flatpak`,
	Args: cobra.NoArgs,
	RunE: runInstalled,
}

func init() {
	installedCmd.Flags().StringSliceVarP(&installedSources, "source", "s", nil, "only list these sources")
	installedCmd.Flags().BoolVar(&installedJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(installedCmd)
}

func runInstalled(cmd *cobra.Command, _ []string) error {
	if packageService == nil {
		return errors.New("package service not configured")
	}

	kinds := make([]domain.SourceKind, 0, len(installedSources))
	for _, s := range installedSources {
		k, err := domain.ParseSourceKind(s)
		if err != nil {
			return err
		}
		kinds = append(kinds, k)
	}

	records, err := packageService.Installed(cmd.Context(), kinds...)
	if errors.Is(err, domain.ErrAllSourcesFailed) || errors.Is(err, domain.ErrUnsupportedSource) {
		return err
	}
	for _, f := range providerErrors(err) {
		cmd.PrintErrf("Warning: %s failed: %v\n", f.Source.DisplayName(), f.Err)
	}

	if installedJSON {
		if records == nil {
			records = []domain.PackageRecord{}
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No installed packages found.")
		return nil
	}
	for _, r := range records {
		cmd.Printf("%-8s %-40s %s\n", r.Source.DisplayName(), r.Name, r.Version)
	}
	return nil
}

// providerErrors unpacks the per-source failures joined into err.
func providerErrors(err error) []*domain.ProviderError {
	if err == nil {
		return nil
	}
	var out []*domain.ProviderError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, providerErrors(e)...)
		}
		return out
	}
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		out = append(out, perr)
	}
	return out
}
