package domain

import "time"

// TokenIssuer issues organizer tokens (e.g. JWT).
type TokenIssuer interface {
	Issue(organizerID string, expiry time.Duration) (string, error)
}

// TokenVerifier validates an organizer token and returns the organizer ID it was issued to.
type TokenVerifier interface {
	Verify(token string) (organizerID string, err error)
}
