package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(q string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients"+q, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", DefaultLimit, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=1000", MaxLimit, 0},
		{"?limit=-3&offset=-2", DefaultLimit, 0},
		{"?page=3&page_size=10", 10, 20},
		{"?page=1&page_size=10", 10, 0},
		{"?page=2", DefaultLimit, DefaultLimit},
		{"?offset=7&page=5", DefaultLimit, 7},
		{"?limit=abc", DefaultLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := FromContext(ctxWithQuery(tt.query))
			if p.Limit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("offset: got %d, want %d", p.Offset, tt.wantOffset)
			}
		})
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]string{"a", "b"}, 25, Params{Limit: 10, Offset: 10})
	if r.Page != 2 {
		t.Errorf("expected page 2, got %d", r.Page)
	}
	if !r.HasMore {
		t.Error("expected has_more at offset 10 of 25")
	}

	r = NewResponse(nil, 25, Params{Limit: 10, Offset: 20})
	if r.HasMore {
		t.Error("expected no more results on the last page")
	}
	if r.Page != 3 {
		t.Errorf("expected page 3, got %d", r.Page)
	}
}
