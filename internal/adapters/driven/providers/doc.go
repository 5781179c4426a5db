// Package providers adapts the system package tools to driven.SourceProvider.
//
// Each provider shells out through a driven.CommandRunner and turns the
// tool's text output into domain.PackageRecord values. The core never sees
// raw tool output. Cached wraps any provider with the result cache.
package providers
