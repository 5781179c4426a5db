// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceProvider: Queries one package ecosystem (pacman, AUR, Flatpak)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CacheStore: Reuses recent provider results. Without it every search hits the tools.
//   - HistoryStore: Records completed searches. Without it history is not kept.
//   - SchedulerStore: Persists maintenance task state.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
