package xclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"twinpics/internal/logging"
	"twinpics/internal/metrics"
	"twinpics/internal/model"
)

// BackfillOptions bounds a back-fill.
type BackfillOptions struct {
	// MaxAttempts caps failed requests (rate limits included) per account.
	MaxAttempts int
	PageSize    int
	// MaxPages caps the number of successful pages; 0 reads until the API
	// returns a short page.
	MaxPages int
	// Sleep waits out a rate limit; defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	Log   *logging.Logger
}

// Backfill pages back through handle's timeline, rotating credentials on rate
// limits and waiting only once every credential is spent. A missing account,
// an empty ring or too many failed attempts yield ErrUnavailable.
func Backfill(ctx context.Context, f Fetcher, ring *Ring, handle string, opts BackfillOptions) ([]model.Message, *model.Account, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	log := logging.OrNop(opts.Log)
	if ring == nil || ring.Len() == 0 {
		return nil, nil, fmt.Errorf("%w: %s: no credentials", ErrUnavailable, handle)
	}

	var (
		msgs     []model.Message
		acc      *model.Account
		maxID    string
		failures int
		pages    int
	)
	for {
		out := f.FetchTimeline(ctx, ring.Current(), TimelineRequest{Handle: handle, MaxID: maxID, Count: opts.PageSize})
		metrics.IncFetchOutcome(out.Kind.String())
		switch out.Kind {
		case OK:
			ring.Reset()
			msgs = append(msgs, out.Messages...)
			if acc == nil && out.Account != nil {
				acc = out.Account
			}
			pages++
			next, ok := olderThan(out.Messages)
			if !ok || len(out.Messages) < opts.PageSize || (opts.MaxPages > 0 && pages >= opts.MaxPages) {
				return msgs, acc, nil
			}
			maxID = next
			continue
		case NotFound:
			return nil, nil, fmt.Errorf("%w: %s: not found", ErrUnavailable, handle)
		case RateLimited:
			failures++
			if ring.Exhaust() {
				log.Warn("credentials_exhausted", "handle", handle, "retry_after", out.RetryAfter)
				if failures < opts.MaxAttempts {
					if err := opts.Sleep(ctx, out.RetryAfter); err != nil {
						return nil, nil, err
					}
				}
				ring.Reset()
			}
		case TransportError:
			failures++
			log.Warn("fetch_failed", "handle", handle, "error", out.Err)
		}
		if failures >= opts.MaxAttempts {
			return nil, nil, fmt.Errorf("%w: %s: gave up after %d attempts", ErrUnavailable, handle, failures)
		}
	}
}

// olderThan returns the max_id that pages past msgs.
func olderThan(msgs []model.Message) (string, bool) {
	if len(msgs) == 0 {
		return "", false
	}
	id, err := strconv.ParseUint(msgs[len(msgs)-1].ID, 10, 64)
	if err != nil || id == 0 {
		return "", false
	}
	return strconv.FormatUint(id-1, 10), true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
