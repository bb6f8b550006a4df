// Package zip321 implements payment request URIs for Stabila, following the
// layout of ZIP 321.
//
// URI Format:
//
//	stabila:<address>?amount=<amount>&token=<asset id>&memo=<memo>&message=<message>
//
// Multiple recipients are supported with indexed parameters:
//
//	stabila:?address.1=<addr1>&amount.1=<amt1>&address.2=<addr2>&amount.2=<amt2>
//
// Native amounts are decimal STB with up to 6 fractional digits (1 STB =
// 1,000,000 sun). When a token is named, the amount is a whole number of
// asset units. Each payment becomes one transfer contract.
package zip321

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

const (
	// Scheme is the URI scheme of payment requests.
	Scheme = "stabila:"

	// SunPerStb is the number of sun in one STB.
	SunPerStb = 1_000_000

	stbDecimals = 6
	maxIndex    = 9999
)

// ErrMissingAmount is returned when a contract is requested for a payment
// whose amount is left to the user.
var ErrMissingAmount = errors.New("payment has no amount")

// PaymentRequest represents a parsed payment request.
type PaymentRequest struct {
	Payments []Payment // List of payment recipients
}

// Payment represents a single payment within a request.
type Payment struct {
	Address crypto.Address // Recipient
	Amount  *int64         // Sun, or asset units when Token is set (nil = user specifies)
	Token   string         // Asset id; empty for native STB
	Memo    *string        // Optional memo, carried in the transaction data
	Label   *string        // Optional label for recipient
	Message *string        // Optional message to display to user
}

// Parse parses a payment request URI.
//
// URI formats supported:
//  1. Single recipient: stabila:<address>?amount=1.5&memo=hello
//  2. Multiple recipients: stabila:?address.1=addr1&amount.1=1&address.2=addr2&amount.2=2
func Parse(uri string) (*PaymentRequest, error) {
	uri = strings.TrimPrefix(uri, Scheme)

	// Split into address and query components
	parts := strings.SplitN(uri, "?", 2)

	var baseAddress string
	var query string

	if len(parts) == 2 {
		baseAddress = parts[0]
		query = parts[1]
	} else if strings.Contains(parts[0], "=") {
		query = parts[0]
	} else {
		baseAddress = parts[0]
	}

	params, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	var payments []Payment

	if hasIndexedParams(params) {
		if baseAddress != "" {
			return nil, fmt.Errorf("indexed parameters cannot be combined " +
				"with a base address")
		}
		payments, err = parseIndexedPayments(params)
		if err != nil {
			return nil, err
		}
	} else {
		payment, err := parseSinglePayment(baseAddress, params)
		if err != nil {
			return nil, err
		}
		payments = []Payment{payment}
	}

	if len(payments) == 0 {
		return nil, fmt.Errorf("no payments found in URI")
	}

	return &PaymentRequest{
		Payments: payments,
	}, nil
}

// parseSinglePayment parses a single-recipient payment request.
func parseSinglePayment(address string, params url.Values) (Payment, error) {
	if addrParam := params.Get("address"); addrParam != "" {
		address = addrParam
	}

	return parsePayment(address, func(name string) string {
		return params.Get(name)
	})
}

func parsePayment(address string, get func(name string) string) (Payment, error) {
	var payment Payment

	if address == "" {
		return payment, fmt.Errorf("missing address")
	}
	addr, err := crypto.DecodeBase58Check(address)
	if err != nil {
		return payment, fmt.Errorf("invalid address %q: %w", address, err)
	}
	payment.Address = addr

	payment.Token = get("token")

	if amountStr := get("amount"); amountStr != "" {
		decimals := stbDecimals
		if payment.Token != "" {
			decimals = 0
		}
		amount, err := parseAmount(amountStr, decimals)
		if err != nil {
			return payment, fmt.Errorf("invalid amount: %w", err)
		}
		payment.Amount = &amount
	}

	if memo := get("memo"); memo != "" {
		payment.Memo = &memo
	}
	if label := get("label"); label != "" {
		payment.Label = &label
	}
	if message := get("message"); message != "" {
		payment.Message = &message
	}

	return payment, nil
}

// parseIndexedPayments parses multiple recipients using indexed parameters.
//
// Indices run from 0 to 9999. Index 0 can be written without suffix.
func parseIndexedPayments(params url.Values) ([]Payment, error) {
	indices := make(map[int]bool)
	for key := range params {
		if idx := extractIndex(key); idx >= 0 {
			indices[idx] = true
		}
	}
	if params.Get("address") != "" {
		indices[0] = true
	}

	result := make([]Payment, 0, len(indices))
	for idx := 0; idx <= maxIndex; idx++ {
		if !indices[idx] {
			continue
		}

		payment, err := parsePayment(getIndexedParam(params, "address", idx),
			func(name string) string {
				return getIndexedParam(params, name, idx)
			})
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", idx, err)
		}
		result = append(result, payment)
	}

	return result, nil
}

// hasIndexedParams checks if the query contains indexed parameters.
func hasIndexedParams(params url.Values) bool {
	for key := range params {
		if strings.Contains(key, ".") {
			return true
		}
	}
	return false
}

// extractIndex extracts the index from a parameter name.
//
// Examples:
//   - "address.1" -> 1
//   - "amount.42" -> 42
//   - "address" -> -1 (no index)
//
// Returns -1 if no index found.
func extractIndex(paramName string) int {
	parts := strings.Split(paramName, ".")
	if len(parts) != 2 {
		return -1
	}

	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 || idx > maxIndex {
		return -1
	}
	return idx
}

// getIndexedParam gets a parameter value for a specific index.
//
// For index 0, tries both "name" and "name.0".
func getIndexedParam(params url.Values, name string, index int) string {
	if index == 0 {
		if val := params.Get(name); val != "" {
			return val
		}
	}
	return params.Get(fmt.Sprintf("%s.%d", name, index))
}

// parseAmount parses a non-negative decimal amount with at most decimals
// fractional digits into base units. Floating point is never used.
func parseAmount(amountStr string, decimals int) (int64, error) {
	whole, frac, hasFrac := strings.Cut(amountStr, ".")
	if whole == "" || (hasFrac && frac == "") {
		return 0, fmt.Errorf("not a valid number: %q", amountStr)
	}
	if len(frac) > decimals {
		return 0, fmt.Errorf("more than %d decimal places", decimals)
	}

	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a valid number: %q", amountStr)
		}
	}

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount out of range: %w", err)
	}
	return amount, nil
}

// ============================================================================
// Contracts
// ============================================================================

// Contract returns the transfer contract paying p from owner: a
// TransferContract for STB, or a TransferAssetContract when a token is set.
func (p *Payment) Contract(owner crypto.Address) (tx.Contract, error) {
	if p.Amount == nil {
		return tx.Contract{}, ErrMissingAmount
	}
	if *p.Amount <= 0 {
		return tx.Contract{}, fmt.Errorf("amount must be positive, got %d",
			*p.Amount)
	}

	if p.Token != "" {
		return tx.NewContract(&tx.TransferAsset{
			AssetName:    []byte(p.Token),
			OwnerAddress: owner.Bytes(),
			ToAddress:    p.Address.Bytes(),
			Amount:       *p.Amount,
		}), nil
	}

	return tx.NewContract(&tx.Transfer{
		OwnerAddress: owner.Bytes(),
		ToAddress:    p.Address.Bytes(),
		Amount:       *p.Amount,
	}), nil
}

// Contracts returns one contract per payment, in order.
func (req *PaymentRequest) Contracts(owner crypto.Address) ([]tx.Contract, error) {
	contracts := make([]tx.Contract, 0, len(req.Payments))
	for i := range req.Payments {
		c, err := req.Payments[i].Contract(owner)
		if err != nil {
			return nil, fmt.Errorf("payment %d: %w", i, err)
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

// Memo returns the memos of all payments joined by newlines.
func (req *PaymentRequest) Memo() string {
	var memos []string
	for _, p := range req.Payments {
		if p.Memo != nil {
			memos = append(memos, *p.Memo)
		}
	}
	return strings.Join(memos, "\n")
}

// ============================================================================
// Helper functions for creating URIs
// ============================================================================

// Encode creates a URI from a PaymentRequest. This is the inverse of
// Parse.
func (req *PaymentRequest) Encode() string {
	if len(req.Payments) == 0 {
		return Scheme
	}

	if len(req.Payments) == 1 {
		return encodeSinglePayment(req.Payments[0])
	}

	return encodeMultiplePayments(req.Payments)
}

// encodeSinglePayment encodes a single payment as a URI.
func encodeSinglePayment(p Payment) string {
	uri := Scheme + p.Address.String()

	params := url.Values{}
	addParams(params, p, "")
	if len(params) > 0 {
		uri += "?" + params.Encode()
	}
	return uri
}

// encodeMultiplePayments encodes multiple payments with indexed parameters.
func encodeMultiplePayments(payments []Payment) string {
	params := url.Values{}

	for i, p := range payments {
		idx := fmt.Sprintf(".%d", i)
		params.Add("address"+idx, p.Address.String())
		addParams(params, p, idx)
	}

	return Scheme + "?" + params.Encode()
}

func addParams(params url.Values, p Payment, idx string) {
	if p.Amount != nil {
		decimals := stbDecimals
		if p.Token != "" {
			decimals = 0
		}
		params.Add("amount"+idx, formatAmount(*p.Amount, decimals))
	}
	if p.Token != "" {
		params.Add("token"+idx, p.Token)
	}
	if p.Memo != nil {
		params.Add("memo"+idx, *p.Memo)
	}
	if p.Label != nil {
		params.Add("label"+idx, *p.Label)
	}
	if p.Message != nil {
		params.Add("message"+idx, *p.Message)
	}
}

// formatAmount formats base units as a decimal with unnecessary trailing
// zeros and decimal point removed.
func formatAmount(amount int64, decimals int) string {
	str := strconv.FormatInt(amount, 10)
	if decimals == 0 {
		return str
	}

	if len(str) <= decimals {
		str = strings.Repeat("0", decimals-len(str)+1) + str
	}
	whole, frac := str[:len(str)-decimals], str[len(str)-decimals:]

	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
