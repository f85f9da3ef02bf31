package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func runSanitize(t *testing.T, logger zerolog.Logger, query url.Values) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1.0/org/x/sample?"+query.Encode(), nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return SanitizeQuery(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		wantErr bool
	}{
		{"plain filters", url.Values{"sampleId": {"SAMPLE-0001"}, "patientName": {"Ada Lovelace"}}, false},
		{"unicode name", url.Values{"patientName": {"Zoë Åström"}}, false},
		{"null byte", url.Values{"sampleId": {"abc\x00"}}, true},
		{"newline", url.Values{"patientName": {"a\nb"}}, true},
		{"control in key", url.Values{"sample\x01Id": {"x"}}, true},
		{"too long", url.Values{"sampleId": {strings.Repeat("a", MaxQueryValueSize+1)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runSanitize(t, zerolog.Nop(), tt.query)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			httpErr, ok := err.(*echo.HTTPError)
			if !ok || httpErr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestSanitizeQuery_LogsSuspiciousValues(t *testing.T) {
	var buf bytes.Buffer
	err := runSanitize(t, zerolog.New(&buf), url.Values{"sampleId": {"x' OR 1=1"}})
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}
	if !strings.Contains(buf.String(), "suspicious query parameter") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}
