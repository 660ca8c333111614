package fraud

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheck_DecodesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("phone"); got != "01712345678" {
			t.Errorf("phone = %q, want 01712345678", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"successOrders": 7, "canceledOrders": 2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	report, err := c.Check(context.Background(), "01712345678")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if report.Phone != "01712345678" {
		t.Errorf("report phone = %q, want the queried number", report.Phone)
	}
	if report.SuccessOrders != 7 || report.CanceledOrders != 2 {
		t.Errorf("report = %+v, want 7 success / 2 canceled", report)
	}
}

func TestCheck_Unconfigured(t *testing.T) {
	c := NewClient("")
	if _, err := c.Check(context.Background(), "01712345678"); err == nil {
		t.Fatal("expected an error when no endpoint is configured")
	}
}

func TestCheck_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Check(context.Background(), "01712345678"); err == nil {
		t.Fatal("expected an error for a failing upstream")
	}
}
