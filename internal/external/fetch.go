package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/wordbag/internal/fileutil"
)

// maxDocumentSize caps the downloaded words.js.
const maxDocumentSize = 16 << 20

// Fetcher retrieves the remote words.js into dest.
type Fetcher interface {
	Fetch(ctx context.Context, dest string) error
}

// HTTPFetcher downloads URL with a per-attempt timeout. Network errors and
// 5xx responses are retried; any other non-200 status fails immediately.
// dest is replaced only after a complete 200 response.
type HTTPFetcher struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
	Backoff backoff.BackOff // defaults to 2 retries, 500ms apart
}

// NewHTTPFetcher returns a fetcher with a constant retry policy.
func NewHTTPFetcher(url string, timeout time.Duration, retries int) *HTTPFetcher {
	if retries < 0 {
		retries = 0
	}
	return &HTTPFetcher{
		URL:     url,
		Client:  http.DefaultClient,
		Timeout: timeout,
		Backoff: backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), uint64(retries)),
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, dest string) error {
	if f.URL == "" {
		return fmt.Errorf("%w: no remote url configured", ErrExternalTool)
	}
	b := f.Backoff
	if b == nil {
		b = backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 2)
	}
	b.Reset()

	var body []byte
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		data, err := f.get(ctx)
		if err != nil {
			log.Debug().Err(err).Int("attempt", attempt).Str("url", f.URL).Msg("fetch attempt failed")
			return err
		}
		body = data
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %v", ErrExternalTool, f.URL, err)
	}

	if err := fileutil.WriteAtomic(dest, body, 0o644); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrExternalTool, dest, err)
	}
	log.Info().Str("url", f.URL).Str("path", dest).Int("bytes", len(body)).Msg("downloaded words.js")
	return nil
}

// get performs one attempt. Non-retryable outcomes are marked permanent.
func (f *HTTPFetcher) get(ctx context.Context) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDocumentSize {
		return nil, backoff.Permanent(fmt.Errorf("document exceeds %d bytes", maxDocumentSize))
	}
	return data, nil
}
