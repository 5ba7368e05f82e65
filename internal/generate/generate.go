// Package generate submits an image plus a text prompt to the Gemini
// image model and returns the generated image bytes.
package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pixelview/internal/imaging"
)

// DefaultEndpoint is the generateContent URL for the image model.
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/" +
	"gemini-2.5-flash-image:generateContent"

// Errors callers can match with errors.Is to distinguish failure modes.
var (
	ErrRateLimited = errors.New("rate limited by generation API")
	ErrAuth        = errors.New("generation API rejected the key")
	ErrTransient   = errors.New("transient generation API error")
)

const (
	requestTimeout  = 60 * time.Second
	maxAttempts     = 5
	initialInterval = 2 * time.Second
)

// Client calls the generation API with retries. The zero value is not
// usable; construct with NewClient.
type Client struct {
	httpClient    *http.Client
	endpoint      string
	retryInterval time.Duration
}

// NewClient returns a client against the default endpoint.
func NewClient() *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		endpoint:      DefaultEndpoint,
		retryInterval: initialInterval,
	}
}

// NewClientForEndpoint returns a client against a specific endpoint URL.
func NewClientForEndpoint(endpoint string) *Client {
	c := NewClient()
	c.endpoint = endpoint
	return c
}

// Wire types for the generateContent call. Only inlineData responses
// are expected since the request asks for IMAGE modality.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// mimeFor maps a decoder format name to the MIME type sent upstream.
func mimeFor(format string) string {
	switch format {
	case "jpeg", "png", "gif", "webp", "bmp", "tiff":
		return "image/" + format
	default:
		return "image/png"
	}
}

// Generate sends the source image and prompt and returns the generated
// image bytes. Retries transient and rate-limit errors with exponential
// backoff, honoring Retry-After when the server sends one.
func (c *Client) Generate(ctx context.Context, apiKey, prompt string, src *imaging.Source) ([]byte, error) {
	if prompt == "" {
		return nil, errors.New("prompt is required")
	}
	if src == nil || !src.Valid() || len(src.Raw) == 0 {
		return nil, errors.New("no image loaded")
	}
	key := NormalizeAPIKey(apiKey)
	if key == "" {
		return nil, errors.New("API key is required")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{InlineData: &inlineData{
					MimeType: mimeFor(src.Format),
					Data:     base64.StdEncoding.EncodeToString(src.Raw),
				}},
			},
		}},
		GenerationConfig: generationConfig{ResponseModalities: []string{"IMAGE"}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.endpoint + "?key=" + key

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryInterval
	exp.MaxElapsedTime = 0
	policy := &serverHintBackOff{ExponentialBackOff: exp}

	var result []byte
	op := func() error {
		data, err := c.post(ctx, url, payload, policy)
		if err != nil {
			return err
		}
		result = data
		return nil
	}
	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, maxAttempts-1), ctx))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// post performs one API call. Retryable failures come back as plain
// errors; everything else is wrapped in backoff.Permanent.
func (c *Client) post(ctx context.Context, url string, payload []byte, policy *serverHintBackOff) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return extractImage(body)
	case resp.StatusCode == http.StatusTooManyRequests:
		if after := resp.Header.Get("Retry-After"); after != "" {
			if secs, err := strconv.ParseFloat(after, 64); err == nil && secs > 0 {
				policy.hint = time.Duration(secs * float64(time.Second))
			}
		}
		return nil, fmt.Errorf("%w (HTTP 429)", ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(fmt.Errorf("%w (HTTP %d): %s", ErrAuth, resp.StatusCode, truncate(body)))
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w (HTTP %d)", ErrTransient, resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("generation API error (HTTP %d): %s", resp.StatusCode, truncate(body)))
	}
}

// extractImage pulls the first inline image out of a response body.
func extractImage(body []byte) ([]byte, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("decode image data: %w", err))
			}
			return data, nil
		}
	}
	return nil, backoff.Permanent(fmt.Errorf("response missing image data: %s", truncate(body)))
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// serverHintBackOff honors a Retry-After duration once, then resumes
// the exponential schedule from the start.
type serverHintBackOff struct {
	*backoff.ExponentialBackOff
	hint time.Duration
}

func (b *serverHintBackOff) Reset() {
	b.hint = 0
	b.ExponentialBackOff.Reset()
}

func (b *serverHintBackOff) NextBackOff() time.Duration {
	if b.hint > 0 {
		d := b.hint
		b.hint = 0
		b.ExponentialBackOff.Reset()
		return d
	}
	return b.ExponentialBackOff.NextBackOff()
}
