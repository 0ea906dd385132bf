package domain

import "errors"

// ErrQuoteUnavailable indicates that the upstream price fetch failed
// for a ticker: unknown symbol, transport error or malformed response.
var ErrQuoteUnavailable = errors.New("quote unavailable")
