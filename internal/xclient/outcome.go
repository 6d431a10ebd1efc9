// Package xclient back-fills account timelines from the X v1.1 API.
package xclient

import (
	"context"
	"errors"
	"time"

	"twinpics/internal/model"
)

// ErrUnavailable means an account's history could not be fetched.
var ErrUnavailable = errors.New("timeline unavailable")

// Kind tags a FetchOutcome.
type Kind int

const (
	OK Kind = iota
	RateLimited
	NotFound
	TransportError
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case RateLimited:
		return "rate_limited"
	case NotFound:
		return "not_found"
	default:
		return "transport_error"
	}
}

// FetchOutcome is the result of one page request. Messages is set for OK,
// RetryAfter for RateLimited and Err for TransportError.
type FetchOutcome struct {
	Kind       Kind
	Messages   []model.Message
	Account    *model.Account
	RetryAfter time.Duration
	Err        error
}

// TimelineRequest asks for one page of a user's timeline, older than MaxID
// when set.
type TimelineRequest struct {
	Handle string
	MaxID  string
	Count  int
}

// Fetcher fetches timeline pages with a given credential.
type Fetcher interface {
	FetchTimeline(ctx context.Context, cred Credential, req TimelineRequest) FetchOutcome
}
