package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/paterkleomenis/archstore/internal/core/domain"
)

const (
	uriScheme = "archstore://"

	historyLimit = 20
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Package sources and whether each is enabled",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent package searches",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{pattern}",
		Name:        "history-recall",
		Description: "Past searches fuzzy-matching a pattern",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sourceInfo struct {
		Source  string `json:"source"`
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	}

	enabled := domain.DefaultAppSettings().Sources
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			return nil, fmt.Errorf("reading settings: %w", err)
		}
		enabled = settings.Sources
	}

	var infos []sourceInfo
	for _, kind := range domain.AllSourceKinds() {
		infos = append(infos, sourceInfo{
			Source:  string(kind),
			Name:    kind.DisplayName(),
			Enabled: enabled.IsEnabled(kind),
		})
	}

	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.ports.History.Recall(ctx, extractPattern(req.Params.URI), historyLimit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	return jsonResource(req.Params.URI, entries)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPattern returns the unescaped pattern from archstore://history/{pattern},
// or "" for the plain history URI.
func extractPattern(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	pattern := strings.TrimPrefix(uri, prefix)
	if unescaped, err := url.PathUnescape(pattern); err == nil {
		return unescaped
	}
	return pattern
}
