package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hyperjump/dishmatch/internal/config"
	"github.com/hyperjump/dishmatch/pkg/utils"
)

const maxErrorBody = 512

// maxResponseBody bounds how much of a recognition response is read.
const maxResponseBody = 1 << 20

// LogMealClient calls the LogMeal dish recognition endpoint.
type LogMealClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// Option configures a LogMealClient.
type Option func(*LogMealClient)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(lc *LogMealClient) { lc.httpClient = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(lc *LogMealClient) { lc.logger = l }
}

// NewLogMealClient builds a client from cfg. A zero rate limit disables throttling.
func NewLogMealClient(cfg config.RecognitionConfig, opts ...Option) (*LogMealClient, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("recognition endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	c := &LogMealClient{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = utils.OrNop(c.logger)
	return c, nil
}

type recognitionResponse struct {
	RecognitionResults []struct {
		Name       string          `json:"name"`
		FoodFamily json.RawMessage `json:"food_family"`
	} `json:"recognition_results"`
}

// Recognize uploads image and returns the top result.
func (c *LogMealClient) Recognize(ctx context.Context, image []byte) (Dish, error) {
	if len(image) == 0 {
		return Dish{}, fmt.Errorf("%w: empty image", ErrRecognitionFailed)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Dish{}, fmt.Errorf("%w: rate limit: %w", ErrRecognitionFailed, err)
	}

	body, contentType, err := encodeImage(image)
	if err != nil {
		return Dish{}, fmt.Errorf("%w: encode request: %w", ErrRecognitionFailed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return Dish{}, fmt.Errorf("%w: build request: %w", ErrRecognitionFailed, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Dish{}, fmt.Errorf("%w: %w", ErrRecognitionFailed, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return Dish{}, fmt.Errorf("%w: read response: %w", ErrRecognitionFailed, err)
	}
	if len(payload) > maxResponseBody {
		return Dish{}, fmt.Errorf("%w: response exceeds %d bytes", ErrRecognitionFailed, maxResponseBody)
	}
	c.logger.Debug("recognition response",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Dish{}, fmt.Errorf("%w: status %d: %s", ErrRecognitionFailed, resp.StatusCode,
			utils.Truncate(strings.TrimSpace(string(payload)), maxErrorBody))
	}
	return parseResponse(payload)
}

func encodeImage(image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="image.jpg"`)
	h.Set("Content-Type", http.DetectContentType(image))
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func parseResponse(payload []byte) (Dish, error) {
	var resp recognitionResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Dish{}, fmt.Errorf("%w: decode response: %w", ErrRecognitionFailed, err)
	}
	if len(resp.RecognitionResults) == 0 {
		return Dish{}, ErrNothingRecognized
	}
	top := resp.RecognitionResults[0]
	name := strings.TrimSpace(top.Name)
	if name == "" {
		return Dish{}, fmt.Errorf("%w: top result has no name", ErrRecognitionFailed)
	}
	family, err := foodFamily(top.FoodFamily)
	if err != nil {
		return Dish{}, fmt.Errorf("%w: decode food_family: %w", ErrRecognitionFailed, err)
	}
	return Dish{Name: name, FoodFamily: family}, nil
}

// foodFamily accepts a string, an object with a name, or a list of either (first entry).
func foodFamily(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	case '{':
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", err
		}
		return strings.TrimSpace(obj.Name), nil
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			return "", err
		}
		if len(list) == 0 {
			return "", nil
		}
		return foodFamily(list[0])
	default:
		return "", errors.New("unexpected food_family shape")
	}
}
