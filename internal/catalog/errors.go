package catalog

import "errors"

// Common errors returned by the catalog manager
var (
	ErrInvalidURL        = errors.New("catalog source url is empty or not a valid absolute url")
	ErrFetch             = errors.New("catalog fetch failed")
	ErrRefreshInProgress = errors.New("a catalog refresh is already running")
	ErrStaleRefresh      = errors.New("catalog source changed during refresh, result discarded")
	ErrClosed            = errors.New("catalog manager is closed")
)
