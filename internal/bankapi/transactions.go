// File: internal/bankapi/transactions.go
package bankapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FlexString decodes a JSON field that some deployments encode as a number
// and others as a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = FlexString(str)
		return nil
	}
	*f = FlexString(s)
	return nil
}

// FlexAmount decodes a monetary value that arrives as either a JSON number
// or a numeric string.
type FlexAmount float64

func (f *FlexAmount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("amount %q is not numeric", str)
		}
		*f = FlexAmount(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexAmount(v)
	return nil
}

// Transaction is the canonical internal shape. Fields are logically required
// by the API's contract, but deployments do not populate them uniformly, so
// absence decodes to zero values rather than failing.
type Transaction struct {
	ID          FlexString `json:"id"`
	AccountID   FlexString `json:"accountId"`
	Date        FlexString `json:"date"`
	Amount      FlexAmount `json:"amount"`
	Type        FlexString `json:"type"`
	Description FlexString `json:"description"`
}

// Result is the single result shape every lookup returns. An empty (but
// non-nil) slice is the degraded variant for absent capabilities.
type Result struct {
	Transactions []Transaction
}

// Empty reports whether the lookup produced no transactions.
func (r *Result) Empty() bool {
	return len(r.Transactions) == 0
}

// SearchCriteria narrows a transaction search. Zero-value fields are left
// off the query. Dates use the MM-dd-yyyy format the bank expects.
type SearchCriteria struct {
	Criteria string
	Amount   string
	FromDate string
	ToDate   string
}

// findTransEnvelope admits both wrappings the search endpoint has been seen
// to produce.
type findTransEnvelope struct {
	Transactions []Transaction `json:"transactions"`
	Transaction  []Transaction `json:"transaction"`
}

func (e *findTransEnvelope) normalize() *Result {
	txns := e.Transactions
	if len(txns) == 0 {
		txns = e.Transaction
	}
	if txns == nil {
		txns = []Transaction{}
	}
	return &Result{Transactions: txns}
}

func emptyResult() *Result {
	return &Result{Transactions: []Transaction{}}
}

// FindTransactions queries the search endpoint and normalizes whatever shape
// comes back. A 404 means the deployment lacks the capability and yields an
// empty result rather than an error; the status is still logged so outages
// and disabled features can be told apart after the fact.
func (c *Client) FindTransactions(ctx context.Context, accountID string, criteria SearchCriteria) (*Result, error) {
	result, err := c.searchTransactions(ctx, accountID, criteria)
	var unavail *UnavailableCapabilityError
	if errors.As(err, &unavail) {
		c.logger.Info("Transaction search capability unavailable, returning empty result.",
			zap.String("account_id", accountID),
			zap.String("endpoint", unavail.Endpoint),
			zap.Int("status", http.StatusNotFound))
		return emptyResult(), nil
	}
	return result, err
}

// searchTransactions performs the raw search. A 404 surfaces as a typed
// *UnavailableCapabilityError for the caller to normalize.
func (c *Client) searchTransactions(ctx context.Context, accountID string, criteria SearchCriteria) (*Result, error) {
	const endpoint = "/findtrans"

	query := url.Values{}
	query.Set("accountId", accountID)
	if criteria.Criteria != "" {
		query.Set("criteria", criteria.Criteria)
	}
	if criteria.Amount != "" {
		query.Set("amount", criteria.Amount)
	}
	if criteria.FromDate != "" {
		query.Set("fromDate", criteria.FromDate)
	}
	if criteria.ToDate != "" {
		query.Set("toDate", criteria.ToDate)
	}

	resp, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, &UnavailableCapabilityError{Endpoint: endpoint}
	case http.StatusOK:
		var envelope findTransEnvelope
		if err := c.decodeJSON(resp, endpoint, &envelope); err != nil {
			return nil, err
		}
		return envelope.normalize(), nil
	default:
		return nil, &StatusError{Endpoint: endpoint, Expected: http.StatusOK, Actual: resp.StatusCode}
	}
}

// FindTransactionsByAmount searches an account for transactions of an exact
// displayed amount.
func (c *Client) FindTransactionsByAmount(ctx context.Context, accountID, amount string) (*Result, error) {
	return c.FindTransactions(ctx, accountID, SearchCriteria{Criteria: "amount", Amount: amount})
}

// GetAllTransactions returns every transaction the search endpoint knows for
// the account.
func (c *Client) GetAllTransactions(ctx context.Context, accountID string) (*Result, error) {
	return c.FindTransactions(ctx, accountID, SearchCriteria{Criteria: "all"})
}

// GetAccountTransactions hits the flatter per-account endpoint, which
// returns an unwrapped array. This path is explicitly best-effort: transport
// failures degrade to an empty result instead of erroring, since the demo
// site serves this endpoint unreliably.
func (c *Client) GetAccountTransactions(ctx context.Context, accountID string) (*Result, error) {
	endpoint := "/accounts/" + accountID + "/transactions"

	resp, err := c.get(ctx, endpoint, nil)
	if err != nil {
		c.logger.Warn("Account transactions request failed, degrading to empty result.",
			zap.String("account_id", accountID),
			zap.Error(err))
		return emptyResult(), nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var txns []Transaction
		if err := c.decodeJSON(resp, endpoint, &txns); err != nil {
			return nil, err
		}
		if txns == nil {
			txns = []Transaction{}
		}
		return &Result{Transactions: txns}, nil
	default:
		c.logger.Info("Account transactions endpoint not usable, returning empty result.",
			zap.String("account_id", accountID),
			zap.Int("status", resp.StatusCode))
		return emptyResult(), nil
	}
}

// AmountsMatch compares a displayed amount string against an observed value
// with the fixed 0.01 tolerance that absorbs formatting differences.
func AmountsMatch(expected string, actual float64) (bool, error) {
	want, err := strconv.ParseFloat(strings.TrimSpace(expected), 64)
	if err != nil {
		return false, fmt.Errorf("expected amount %q is not numeric", expected)
	}
	return math.Abs(want-actual) <= 0.01, nil
}

// ContainsAmount reports whether any transaction in the result matches the
// expected amount within tolerance.
func (r *Result) ContainsAmount(expected string) (bool, error) {
	for _, txn := range r.Transactions {
		ok, err := AmountsMatch(expected, float64(txn.Amount))
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
