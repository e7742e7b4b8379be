package mugloar

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed remote call.
type ErrorKind string

const (
	// KindTransport covers network-level failures (dial, timeout, TLS).
	KindTransport ErrorKind = "transport"
	// KindStatus covers non-200 HTTP responses other than game-over.
	KindStatus ErrorKind = "status"
	// KindProtocol covers responses that parsed but had the wrong shape.
	KindProtocol ErrorKind = "protocol"
	// KindGameOver is the server refusing further actions on a dead game.
	KindGameOver ErrorKind = "game_over"
)

// RemoteError is the single error type the client surfaces. Callers branch
// on Kind or on the predicate methods; they never see raw transport errors.
type RemoteError struct {
	Kind       ErrorKind
	Detail     string
	StatusCode int // set for KindStatus and KindGameOver
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mugloar: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("mugloar: %s: %s", e.Kind, e.Detail)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsGameOver reports whether the server declared the game dead.
func (e *RemoteError) IsGameOver() bool { return e.Kind == KindGameOver }

// IsRetryable reports whether the call may succeed if repeated: transient
// transport failures and server-side 5xx responses.
func (e *RemoteError) IsRetryable() bool {
	return e.Kind == KindTransport || (e.Kind == KindStatus && e.StatusCode >= 500)
}

// IsGameOver reports whether err, anywhere in its chain, is the server
// declaring the game dead.
func IsGameOver(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.IsGameOver()
}

// IsRetryable reports whether err, anywhere in its chain, is a retryable
// remote failure.
func IsRetryable(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.IsRetryable()
}

func transportError(err error) *RemoteError {
	return &RemoteError{Kind: KindTransport, Detail: err.Error(), Err: err}
}

func statusError(code int, body string) *RemoteError {
	kind := KindStatus
	// The API answers 410 Gone once the game has no lives left.
	if code == 410 {
		kind = KindGameOver
	}
	return &RemoteError{Kind: kind, Detail: body, StatusCode: code}
}

func protocolError(format string, args ...any) *RemoteError {
	return &RemoteError{Kind: KindProtocol, Detail: fmt.Sprintf(format, args...)}
}
