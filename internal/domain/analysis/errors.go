package analysis

import "errors"

// ErrNoAnalysis indicates an export was requested before any analysis was
// successfully loaded. Checked before any network call is made.
var ErrNoAnalysis = errors.New("no analysis loaded yet")

// ErrBackend wraps non-success responses from the analysis backend.
var ErrBackend = errors.New("analysis backend error")

// ErrSessionNotFound indicates an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// ErrStillRunning indicates the result was requested before completion.
var ErrStillRunning = errors.New("analysis still running")
