package chapa

import (
	"errors"
	"fmt"
)

var (
	// ErrGatewayNotConfigured is returned when the client has no secret key.
	ErrGatewayNotConfigured = errors.New("chapa secret key is not configured")

	// ErrGatewayUnreachable is returned on transport-level failures such as
	// connection errors and timeouts.
	ErrGatewayUnreachable = errors.New("chapa gateway unreachable")
)

// RejectedError is returned when the gateway answered but the response did
// not have the expected HTTP status or shape.
type RejectedError struct {
	Op         string
	StatusCode int
	Body       []byte
	Reason     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("chapa %s rejected (http %d): %s", e.Op, e.StatusCode, e.Reason)
}
