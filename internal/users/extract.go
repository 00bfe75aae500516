package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net"
	"net/http"

	"github.com/ZERO20/latai-labs-etl-test/internal/domain"
)

const defaultMaxBodyBytes = 8 << 20 // 8MB

// Extractor fetches raw user records from a JSON endpoint. One GET per run,
// no retries: every transport or shape failure is surfaced as-is.
type Extractor struct {
	client       *http.Client
	endpoint     string
	log          *slog.Logger
	maxBodyBytes int64
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMaxBodyBytes bounds how much of the response body is read.
func WithMaxBodyBytes(n int64) ExtractorOption {
	return func(e *Extractor) { e.maxBodyBytes = n }
}

func NewExtractor(client *http.Client, endpoint string, log *slog.Logger, opts ...ExtractorOption) *Extractor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Extractor{
		client:       client,
		endpoint:     endpoint,
		log:          log,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Endpoint returns the configured source URL.
func (e *Extractor) Endpoint() string { return e.endpoint }

// Records yields raw users in response order. A failed fetch yields exactly
// one error carrying its kind (connection, timeout, http_status, decode,
// schema). Array elements that are not JSON objects yield a per-element
// malformed_record error, which callers may skip without aborting the run.
// An empty array yields nothing: zero records is a valid result.
func (e *Extractor) Records(ctx context.Context) iter.Seq2[domain.RawUser, error] {
	return func(yield func(domain.RawUser, error) bool) {
		elems, err := e.fetch(ctx)
		if err != nil {
			e.log.Error("extract.failed",
				"endpoint", e.endpoint,
				"kind", string(domain.Kind(err)),
				"error", err,
			)
			yield(domain.RawUser{}, err)
			return
		}

		e.log.Info("extract.complete", "endpoint", e.endpoint, "records", len(elems))

		for i, elem := range elems {
			user, err := decodeUser(elem)
			if err != nil {
				if !yield(domain.RawUser{}, fmt.Errorf("record %d: %w", i, err)) {
					return
				}
				continue
			}
			if !yield(user, nil) {
				return
			}
		}
	}
}

// fetch performs the GET and decodes the body into raw array elements.
func (e *Extractor) fetch(ctx context.Context) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint, nil)
	if err != nil {
		return nil, &domain.OpError{Op: "users.extract", Kind: domain.KindInvalidConfig, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.OpError{
			Op:     "users.extract",
			Kind:   domain.KindHTTPStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %q", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBodyBytes))
	if err != nil {
		return nil, classifyTransport(err)
	}

	if !json.Valid(body) {
		return nil, &domain.OpError{
			Op:   "users.extract",
			Kind: domain.KindDecode,
			Err:  errors.New("response body is not valid JSON"),
		}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, &domain.OpError{Op: "users.extract", Kind: domain.KindSchema, Err: domain.ErrSchema}
	}
	// json.Unmarshal leaves the slice nil for a top-level null without an
	// error, and null is not the array the contract requires.
	if elems == nil && bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, &domain.OpError{Op: "users.extract", Kind: domain.KindSchema, Err: domain.ErrSchema}
	}

	return elems, nil
}

// decodeUser decodes one array element. Elements that are not JSON objects,
// or whose fields do not match the expected types, are malformed records.
func decodeUser(elem json.RawMessage) (domain.RawUser, error) {
	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.RawUser{}, &domain.OpError{
			Op:   "users.extract",
			Kind: domain.KindMalformedRecord,
			Err:  fmt.Errorf("%w: not a JSON object", domain.ErrMalformedRecord),
		}
	}

	var user domain.RawUser
	if err := json.Unmarshal(trimmed, &user); err != nil {
		return domain.RawUser{}, &domain.OpError{
			Op:   "users.extract",
			Kind: domain.KindMalformedRecord,
			Err:  fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err),
		}
	}
	return user, nil
}

// classifyTransport separates timeouts from other transport failures.
func classifyTransport(err error) error {
	kind := domain.KindConnection

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		kind = domain.KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = domain.KindTimeout
	}

	return &domain.OpError{Op: "users.extract", Kind: kind, Err: err}
}
