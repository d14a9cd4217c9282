package providers

import "time"

// shutdownTimeout bounds graceful shutdown of the HTTP server and
// background jobs.
const shutdownTimeout = 15 * time.Second
