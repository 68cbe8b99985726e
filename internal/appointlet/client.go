package appointlet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/example/pista-scheduler/internal/court"
)

// DefaultBaseURL is the production Appointlet API.
const DefaultBaseURL = "https://api.appointlet.com"

// Client talks to the Appointlet availability and booking endpoints. The
// API requires no auth headers; it does expect a browser-looking request
// profile, mirrored from the web client this replaces.
type Client struct {
	hc      *http.Client
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(opts ...Option) *Client {
	c := &Client{
		hc:      &http.Client{Timeout: 30 * time.Second},
		baseURL: DefaultBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Record is the confirmation payload returned on a successful booking.
// Immutable once created.
type Record struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Email    string `json:"email"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
	Service  struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Duration int    `json:"duration"`
	} `json:"service"`
	Bookable struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"bookable"`
}

// Fields carries the requester details under their external field names.
type Fields struct {
	Nom       string `json:"nom"`
	LastName  string `json:"last-name"`
	Localitat string `json:"localitat"`
	Telefon   string `json:"telefon"`
}

// BookingRequest is the wire body for POST /bookings.
type BookingRequest struct {
	Organization int    `json:"organization"`
	Timezone     string `json:"timezone"`
	Email        string `json:"email"`
	Fields       Fields `json:"fields"`
	Bookable     int    `json:"bookable"`
	Service      int    `json:"service"`
	Start        string `json:"start"`
	End          string `json:"end"`
}

// RejectionError is a booking attempt the server turned down: any status
// other than 201. Detail carries the response body text when the server
// sent one.
type RejectionError struct {
	Status int
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail != "" {
		return "appointlet: booking rejected: " + e.Detail
	}
	return fmt.Sprintf("appointlet: booking rejected (status=%d)", e.Status)
}

// AvailableTimes fetches the raw availability for a court: every open
// start instant the facility currently offers, across all days.
func (c *Client) AvailableTimes(ctx context.Context, ct court.Court) ([]time.Time, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.baseURL+ct.AvailabilityPath(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "appointlet: availability query")
	}
	if status < 200 || status >= 300 {
		return nil, errors.Newf("appointlet: availability query failed (status=%d)", status)
	}
	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "appointlet: decode availability")
	}
	out := make([]time.Time, 0, len(raw))
	for _, s := range raw {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, errors.Wrapf(err, "appointlet: bad slot %q", s)
		}
		out = append(out, t)
	}
	return out, nil
}

// CreateBooking submits one booking. Success is exactly HTTP 201 with a
// Record body; anything else is a *RejectionError. The call is not
// idempotent: submitting the same request twice creates two bookings.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (Record, error) {
	jb, err := json.Marshal(req)
	if err != nil {
		return Record{}, errors.Wrap(err, "appointlet: marshal booking")
	}
	status, body, err := c.do(ctx, http.MethodPost, c.baseURL+"/bookings", jb)
	if err != nil {
		return Record{}, errors.Wrap(err, "appointlet: submit booking")
	}
	if status != http.StatusCreated {
		return Record{}, &RejectionError{Status: status, Detail: strings.TrimSpace(string(body))}
	}
	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return Record{}, errors.Wrap(err, "appointlet: decode booking record")
	}
	return rec, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("accept-language", "es,es-ES;q=0.9,en;q=0.8")
	req.Header.Set("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36")
	if method == http.MethodPost {
		req.Header.Set("content-type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}

// WireTime serializes an instant to the canonical wire format the API
// expects (UTC, RFC3339).
func WireTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
