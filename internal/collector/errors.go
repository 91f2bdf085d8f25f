package collector

import "fmt"

// RequestError indicates a network or API-level failure while fetching
// history for one symbol.
type RequestError struct {
	Symbol string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed for %s: %v", e.Symbol, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ResponseFormatError indicates the API returned a body whose shape does not
// match the expected history response.
type ResponseFormatError struct {
	Symbol string
	Detail string
	Err    error
}

func (e *ResponseFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response for %s: %s: %v", e.Symbol, e.Detail, e.Err)
	}
	return fmt.Sprintf("malformed response for %s: %s", e.Symbol, e.Detail)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// InsufficientHistoryError indicates the API ran out of history before the
// requested number of ticks could be assembled.
type InsufficientHistoryError struct {
	Symbol string
	Want   int
	Have   int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient history for %s: wanted %d ticks, only %d available", e.Symbol, e.Want, e.Have)
}
