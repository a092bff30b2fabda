package supersetclient

import "fmt"

// AuthError means the service account could not authenticate, either the
// login itself failed or a refreshed token was rejected again with 401
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	return e.Msg
}

// RemoteError is any other non-2xx or transport-level failure, it keeps the
// upstream status and body so callers can render a message without guessing
type RemoteError struct {
	Status int
	Body   string
	Msg    string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: status %d, body: %s", e.Msg, e.Status, e.Body)
}

// NotEmbeddableError means the dashboard exists but fails the embedding
// policy, surfaced to the caller as a 403 with a human-readable reason
type NotEmbeddableError struct {
	Reason string
}

func (e *NotEmbeddableError) Error() string {
	return e.Reason
}

// ProtocolError means a 2xx response did not match the expected shape,
// usually a version mismatch with the Superset server
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return e.Msg
}
