// Package gateway models the external wallet gateway contract: a
// browser redirect out carrying amount/to/callback query parameters, and
// a redirect back carrying status and trxid. The callback URL points at
// the frontend, not the API: the raw gateway redirect carries no auth
// token, so the frontend page relays status and trxid to the
// authenticated callback endpoint using the buyer's stored token.
package gateway

import (
	"fmt"
	"net/url"
	"strconv"
)

type Gateway struct {
	baseURL     string
	recipient   string
	callbackURL string
	amount      int
}

func New(baseURL, recipient, callbackURL string, amount int) *Gateway {
	return &Gateway{
		baseURL:     baseURL,
		recipient:   recipient,
		callbackURL: callbackURL,
		amount:      amount,
	}
}

func (g *Gateway) AdvanceAmount() float64 {
	return float64(g.amount)
}

// RedirectURL builds the full-page redirect target for the advance
// payment. The gateway sends the buyer back to callbackURL afterwards.
func (g *Gateway) RedirectURL() (string, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid gateway base URL: %w", err)
	}

	q := u.Query()
	q.Set("amount", strconv.Itoa(g.amount))
	q.Set("to", g.recipient)
	q.Set("callback", g.callbackURL)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// CallbackResult is what the gateway reports on return. Completed is
// true only for status=success with a non-empty transaction id; anything
// else means the buyer came back without paying.
type CallbackResult struct {
	Completed     bool
	TransactionID string
}

func ParseCallback(query url.Values) CallbackResult {
	trxID := query.Get("trxid")
	if query.Get("status") != "success" || trxID == "" {
		return CallbackResult{}
	}
	return CallbackResult{Completed: true, TransactionID: trxID}
}
