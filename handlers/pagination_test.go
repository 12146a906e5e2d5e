package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	c.Request = req
	return c
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"explicit", "limit=25&offset=50", 25, 50},
		{"limit clamped", "limit=99999", MaxLimit, 0},
		{"negative limit ignored", "limit=-5", DefaultLimit, 0},
		{"negative offset ignored", "offset=-10", DefaultLimit, 0},
		{"garbage ignored", "limit=abc&offset=xyz", DefaultLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePagination(testContext(t, tt.query))
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", p.Offset, tt.wantOffset)
			}
		})
	}
}

func TestIntQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{"default", "", 20, false},
		{"valid", "buckets=50", 50, false},
		{"below min", "buckets=2", 0, true},
		{"above max", "buckets=500", 0, true},
		{"not a number", "buckets=ten", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intQuery(testContext(t, tt.query), "buckets", 20, 5, 100)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFloatQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    float64
		wantErr bool
	}{
		{"default", "", 95.0, false},
		{"valid", "min_percentile=42.5", 42.5, false},
		{"zero is valid", "min_percentile=0", 0, false},
		{"out of range", "min_percentile=101", 0, true},
		{"not a number", "min_percentile=high", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := floatQuery(testContext(t, tt.query), "min_percentile", 95.0, 0, 100)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequiredFloatQuery(t *testing.T) {
	if _, err := requiredFloatQuery(testContext(t, ""), "min_lat", -90, 90); err == nil {
		t.Error("expected error when required parameter is missing")
	}

	got, err := requiredFloatQuery(testContext(t, "min_lat=-45.5"), "min_lat", -90, 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != -45.5 {
		t.Errorf("got %v, want -45.5", got)
	}
}
