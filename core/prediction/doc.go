// Package prediction turns encoded features into traffic estimates using
// the process-wide model, and derives the density score and status label
// shown to users. The core estimate is deterministic; per-location map data
// may add a bounded random offset supplied through the Jitter interface.
package prediction
