package version

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current   string
		candidate string
		want      bool
	}{
		{"0.14.0", "0.14.1", true},
		{"0.14.0", "0.15.0", true},
		{"0.14.0", "1.0.0", true},
		{"0.14.0", "0.14.0", false},
		{"0.14.1", "0.14.0", false},
		{"1.0.0", "0.99.99", false},
		{"0.14", "0.14.1", true},
		{"0.14.0", "0.14", false},
	}

	for _, tt := range tests {
		t.Run(tt.current+" vs "+tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNewer(tt.current, tt.candidate))
		})
	}
}

func TestCheckerLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v0.15.2"}`))
	}))
	defer server.Close()

	latest, err := NewChecker(server.URL).Latest()
	require.NoError(t, err)
	assert.Equal(t, "0.15.2", latest)
}

func TestCheckerLatestErrors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := NewChecker(server.URL).Latest()
		assert.Error(t, err)
	})

	t.Run("empty tag", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := NewChecker(server.URL).Latest()
		assert.Error(t, err)
	})
}
