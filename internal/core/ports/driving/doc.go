// Package driving lists what the CLI, TUI, MCP and HTTP adapters may ask
// of the core: searching, settings, history and maintenance. The services
// package implements every interface here.
package driving
