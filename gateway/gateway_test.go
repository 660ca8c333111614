package gateway

import (
	"net/url"
	"testing"
)

func TestRedirectURL_CarriesAmountRecipientAndCallback(t *testing.T) {
	gw := New("https://wallet.example.com/pay", "01778953114", "http://localhost:8080/api/checkout/advance/callback", 300)

	raw, err := gw.RedirectURL()
	if err != nil {
		t.Fatalf("RedirectURL returned error: %v", err)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Redirect URL does not parse: %v", err)
	}

	q := parsed.Query()
	if got := q.Get("amount"); got != "300" {
		t.Errorf("Expected amount=300, got %q", got)
	}
	if got := q.Get("to"); got != "01778953114" {
		t.Errorf("Expected to=01778953114, got %q", got)
	}
	if got := q.Get("callback"); got != "http://localhost:8080/api/checkout/advance/callback" {
		t.Errorf("Expected callback to round-trip, got %q", got)
	}
}

func TestRedirectURL_InvalidBase(t *testing.T) {
	gw := New("://not-a-url", "x", "y", 300)
	if _, err := gw.RedirectURL(); err == nil {
		t.Error("Expected error for invalid base URL")
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		completed bool
		trxID     string
	}{
		{"success with trxid", "status=success&trxid=ABC123", true, "ABC123"},
		{"missing status", "trxid=ABC123", false, ""},
		{"failed status", "status=failed&trxid=ABC123", false, ""},
		{"success without trxid", "status=success", false, ""},
		{"empty query", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("Bad test query: %v", err)
			}

			result := ParseCallback(values)
			if result.Completed != tt.completed {
				t.Errorf("Expected completed=%v, got %v", tt.completed, result.Completed)
			}
			if result.TransactionID != tt.trxID {
				t.Errorf("Expected trxid %q, got %q", tt.trxID, result.TransactionID)
			}
		})
	}
}
