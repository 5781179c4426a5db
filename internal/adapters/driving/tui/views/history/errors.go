package history

import "errors"

// ErrNoHistoryService indicates that search history is not available.
var ErrNoHistoryService = errors.New("search history is not available")
