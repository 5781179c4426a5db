package search

import "errors"

// ErrNoSearchService is reported when the view was built without a
// search service.
var ErrNoSearchService = errors.New("package search is not available")
