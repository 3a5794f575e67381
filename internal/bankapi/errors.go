// File: internal/bankapi/errors.go
package bankapi

import "fmt"

// UnavailableCapabilityError reports a 404 from the bank's API. The demo
// deployments expose the transaction endpoints inconsistently, so callers
// treat this as "capability absent" rather than a failure.
type UnavailableCapabilityError struct {
	Endpoint string
}

func (e *UnavailableCapabilityError) Error() string {
	return fmt.Sprintf("capability unavailable: %s returned 404", e.Endpoint)
}

// InvalidResponseError reports a 200 response whose body broke the JSON
// contract: wrong content-type or a body that does not decode.
type InvalidResponseError struct {
	Endpoint    string
	ContentType string
	Reason      string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response from %s (content-type %q): %s",
		e.Endpoint, e.ContentType, e.Reason)
}

// StatusError reports a status code outside the endpoint's contract.
type StatusError struct {
	Endpoint string
	Expected int
	Actual   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: expected status %d, got %d", e.Endpoint, e.Expected, e.Actual)
}
