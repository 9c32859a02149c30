package recognition

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/dishmatch/internal/config"
)

var jpeg = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func newClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*config.RecognitionConfig)) *LogMealClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.RecognitionConfig{Endpoint: srv.URL, APIKey: "secret", Timeout: 2 * time.Second}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewLogMealClient(cfg)
	require.NoError(t, err)
	return c
}

func TestRecognize_SendsMultipartImageWithBearer(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		got, _ := io.ReadAll(file)
		assert.Equal(t, jpeg, got)
		assert.Equal(t, "image.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))

		_, _ = w.Write([]byte(`{"recognition_results":[{"name":"pizza","food_family":"Italian"},{"name":"bread"}]}`))
	})

	dish, err := c.Recognize(context.Background(), jpeg)
	require.NoError(t, err)
	assert.Equal(t, Dish{Name: "pizza", FoodFamily: "Italian"}, dish)
	assert.Equal(t, "Italian", dish.Term())
}

func TestRecognize_FoodFamilyShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantName string
		wantFam  string
	}{
		{"missing", `{"recognition_results":[{"name":"ramen"}]}`, "ramen", ""},
		{"null", `{"recognition_results":[{"name":"ramen","food_family":null}]}`, "ramen", ""},
		{"object", `{"recognition_results":[{"name":"ramen","food_family":{"id":3,"name":"Noodles"}}]}`, "ramen", "Noodles"},
		{"list", `{"recognition_results":[{"name":"ramen","food_family":[{"name":"Soup"},{"name":"Noodles"}]}]}`, "ramen", "Soup"},
		{"empty list", `{"recognition_results":[{"name":"ramen","food_family":[]}]}`, "ramen", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			dish, err := c.Recognize(context.Background(), jpeg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, dish.Name)
			assert.Equal(t, tt.wantFam, dish.FoodFamily)
			if tt.wantFam == "" {
				assert.Equal(t, tt.wantName, dish.Term())
			}
		})
	}
}

func TestRecognize_NothingRecognized(t *testing.T) {
	for _, body := range []string{`{"recognition_results":[]}`, `{}`} {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		_, err := c.Recognize(context.Background(), jpeg)
		assert.ErrorIs(t, err, ErrNothingRecognized, body)
		assert.False(t, errors.Is(err, ErrRecognitionFailed))
	}
}

func TestRecognize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"recognition_results":`))
		}},
		{"nameless result", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"recognition_results":[{"name":""}]}`))
		}},
		{"odd food family", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"recognition_results":[{"name":"x","food_family":42}]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, tt.handler)
			_, err := c.Recognize(context.Background(), jpeg)
			assert.ErrorIs(t, err, ErrRecognitionFailed)
		})
	}
}

func TestRecognize_StatusErrorCarriesBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	})
	_, err := c.Recognize(context.Background(), jpeg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid token")
}

func TestRecognize_OversizedResponse(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recognition_results":[{"name":"pizza","note":"`))
		_, _ = w.Write(bytes.Repeat([]byte("a"), 2<<20))
		_, _ = w.Write([]byte(`"}]}`))
	})

	_, err := c.Recognize(context.Background(), jpeg)
	require.ErrorIs(t, err, ErrRecognitionFailed)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestRecognize_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Recognize(ctx, jpeg)
	assert.ErrorIs(t, err, ErrRecognitionFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecognize_EmptyImage(t *testing.T) {
	called := false
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
	_, err := c.Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, ErrRecognitionFailed)
	assert.False(t, called)
}

func TestNewLogMealClient_RequiresEndpoint(t *testing.T) {
	_, err := NewLogMealClient(config.RecognitionConfig{})
	assert.Error(t, err)
}

func TestRecognizerFunc(t *testing.T) {
	var r Recognizer = RecognizerFunc(func(ctx context.Context, image []byte) (Dish, error) {
		return Dish{Name: "taco"}, nil
	})
	dish, err := r.Recognize(context.Background(), jpeg)
	require.NoError(t, err)
	assert.Equal(t, "taco", dish.Term())
}
