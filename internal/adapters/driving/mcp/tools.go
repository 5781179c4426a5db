package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paterkleomenis/archstore/internal/core/domain"
	"github.com/paterkleomenis/archstore/internal/core/ranking"
)

// defaultLimit caps results when the caller does not.
const defaultLimit = 20

// SearchInput is the input schema for the search_packages tool.
type SearchInput struct {
	Query     string `json:"query" jsonschema:"package name or keywords, at least two characters"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
	Source    string `json:"source,omitempty" jsonschema:"restrict to one source: official, aur or flatpak"`
	Installed *bool  `json:"installed,omitempty" jsonschema:"true for installed packages only, false for not installed only"`
}

// SearchOutput is the output schema for the search_packages tool.
type SearchOutput struct {
	Query    string                 `json:"query"`
	Count    int                    `json:"count"`
	Total    int                    `json:"total"`
	Results  []PackageOutput        `json:"results"`
	Failures []domain.SourceFailure `json:"failures,omitempty"`
}

// PackageOutput is one ranked package.
type PackageOutput struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
	Sources     []string `json:"sources"`
	Versions    []string `json:"versions,omitempty"`
	Installed   bool     `json:"installed"`
	Score       int      `json:"score"`
	Icon        string   `json:"icon,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search_packages",
		Description: "Search Arch Linux official repositories, the AUR and Flatpak at once. " +
			"Results from different sources that are the same application are merged.",
	}, s.handleSearch)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	view, err := viewFromInput(input)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	snapshot, err := s.ports.Search.Search(ctx, strings.TrimSpace(input.Query), nil)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	visible := ranking.ApplyView(snapshot.Entries, view)
	shown := ranking.Truncate(visible, limit)

	output := SearchOutput{
		Query:    snapshot.Query,
		Count:    len(shown),
		Total:    len(visible),
		Results:  make([]PackageOutput, len(shown)),
		Failures: snapshot.Failures,
	}
	for i, e := range shown {
		output.Results[i] = toPackageOutput(e)
	}

	return nil, output, nil
}

func viewFromInput(input SearchInput) (domain.ViewSettings, error) {
	install := ""
	if input.Installed != nil {
		install = string(domain.InstallNotInstalled)
		if *input.Installed {
			install = string(domain.InstallInstalled)
		}
	}
	return domain.ParseViewSettings(install, input.Source, "")
}

func toPackageOutput(e domain.AggregateEntry) PackageOutput {
	kinds := e.Kinds()
	sources := make([]string, len(kinds))
	for i, k := range kinds {
		sources[i] = string(k)
	}

	name := e.DisplayName
	if len(kinds) > 0 {
		name = e.Sources[kinds[0]].Name
	}

	return PackageOutput{
		Name:        name,
		DisplayName: e.DisplayName,
		Description: e.Description,
		Sources:     sources,
		Versions:    e.Versions(),
		Installed:   e.InstalledAny,
		Score:       e.Score,
		Icon:        e.Icon,
	}
}
