package domain

// CancellationQuote is the ephemeral answer to "what does cancelling this trip
// cost right now". It is computed, never persisted.
type CancellationQuote struct {
	IsFree           bool
	FeeAmount        float64
	Currency         string
	MinutesRemaining int
}
