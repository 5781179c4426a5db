// Package services implements the driving port interfaces.
//
// SearchService fans a query out to the source providers on a shared
// worker pool and feeds each provider's batch into a Session, which
// re-ranks the cumulative record set and emits snapshots. A Coordinator
// owns the single live session of one consumer and debounces input.
// SettingsService, HistoryService and Scheduler cover configuration,
// recall of past queries and background maintenance.
package services
