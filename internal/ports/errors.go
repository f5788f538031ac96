package ports

import "errors"

// ErrRateLimited is returned by a ReviewSource when the remote side answered
// with a throttling status. The collector backs off once and retries.
var ErrRateLimited = errors.New("rate limited by source")
