// Package mcp serves package search to AI assistants over the Model
// Context Protocol, on stdio or streamable HTTP.
package mcp

import "errors"

// ErrMissingSearchService is returned by NewServer when Ports.Search is nil.
var ErrMissingSearchService = errors.New("mcp: no search service wired")
