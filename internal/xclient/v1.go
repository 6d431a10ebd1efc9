package xclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"twinpics/internal/ingest"
)

const defaultBaseURL = "https://api.twitter.com/1.1"

// V1Client reads user timelines from X API v1.1 with OAuth 1.0a user
// credentials.
type V1Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	nowFn      func() time.Time
	nonceFn    func() string
}

func NewV1Client(rps float64, burst int) *V1Client {
	return &V1Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    newLimiter(rps, burst),
		nowFn:      time.Now,
		nonceFn:    func() string { return strconv.FormatInt(rand.Int63(), 36) },
	}
}

// FetchTimeline requests one page of statuses/user_timeline.
func (c *V1Client) FetchTimeline(ctx context.Context, cred Credential, req TimelineRequest) FetchOutcome {
	params := map[string]string{
		"screen_name": req.Handle,
		"count":       strconv.Itoa(clamp(req.Count, 1, 200)),
		"tweet_mode":  "extended",
		"include_rts": "true",
	}
	if req.MaxID != "" {
		params["max_id"] = req.MaxID
	}
	endpoint := c.baseURL + "/statuses/user_timeline.json"
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+encodeQuery(params), nil)
	if err != nil {
		return FetchOutcome{Kind: TransportError, Err: err}
	}
	c.oauth1Sign(hreq, cred, params)
	if err := c.limiter.Wait(ctx); err != nil {
		return FetchOutcome{Kind: TransportError, Err: err}
	}
	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return FetchOutcome{Kind: TransportError, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return FetchOutcome{Kind: RateLimited, RetryAfter: retryAfter(resp.Header, c.nowFn())}
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return FetchOutcome{Kind: NotFound}
	case resp.StatusCode >= 400:
		return FetchOutcome{Kind: TransportError, Err: fmt.Errorf("x v1 status %d", resp.StatusCode)}
	}

	batch, err := ingest.DecodeTweets(resp.Body, endpoint)
	if err != nil {
		return FetchOutcome{Kind: TransportError, Err: err}
	}
	out := FetchOutcome{Kind: OK, Messages: batch.Messages}
	if len(batch.Accounts) > 0 {
		acc := batch.Accounts[0]
		out.Account = &acc
	}
	return out
}

// retryAfter reads Retry-After (seconds or HTTP date), then
// x-rate-limit-reset (epoch seconds), defaulting to a minute.
func retryAfter(h http.Header, now time.Time) time.Duration {
	if ra := h.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			return time.Duration(secs) * time.Second
		}
		if t, err := http.ParseTime(ra); err == nil {
			return max(0, t.Sub(now))
		}
	}
	if reset := h.Get("x-rate-limit-reset"); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			return max(0, time.Unix(epoch, 0).Sub(now))
		}
	}
	return time.Minute
}

func (c *V1Client) oauth1Sign(req *http.Request, cred Credential, queryParams map[string]string) {
	oauth := map[string]string{
		"oauth_consumer_key":     cred.ConsumerKey,
		"oauth_nonce":            c.nonceFn(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(c.nowFn().Unix(), 10),
		"oauth_token":            cred.AccessToken,
		"oauth_version":          "1.0",
	}
	all := map[string]string{}
	for k, v := range oauth {
		all[k] = v
	}
	for k, v := range queryParams {
		all[k] = v
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paramParts := make([]string, 0, len(keys))
	for _, k := range keys {
		paramParts = append(paramParts, rfc3986(k)+"="+rfc3986(all[k]))
	}
	baseURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	base := req.Method + "&" + rfc3986(baseURL) + "&" + rfc3986(strings.Join(paramParts, "&"))
	signingKey := rfc3986(cred.ConsumerSecret) + "&" + rfc3986(cred.AccessSecret)
	mac := hmac.New(sha1.New, []byte(signingKey))
	_, _ = mac.Write([]byte(base))
	oauth["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	hdrKeys := make([]string, 0, len(oauth))
	for k := range oauth {
		hdrKeys = append(hdrKeys, k)
	}
	sort.Strings(hdrKeys)
	authParts := make([]string, 0, len(hdrKeys))
	for _, k := range hdrKeys {
		authParts = append(authParts, fmt.Sprintf("%s=\"%s\"", rfc3986(k), rfc3986(oauth[k])))
	}
	req.Header.Set("Authorization", "OAuth "+strings.Join(authParts, ", "))
	req.Header.Set("Accept", "application/json")
}

func encodeQuery(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(m[k]))
	}
	return strings.Join(parts, "&")
}

// RFC 3986 percent-encoding for OAuth
func rfc3986(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(url.QueryEscape(s), "+", "%20"), "*", "%2A")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
