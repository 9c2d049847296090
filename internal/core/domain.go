package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeTag is the reserved category meaning money received. Every other
// tag is treated as spend, regardless of the stored sign of the amount.
const IncomeTag = "Income"

const (
	AssetAccount    AssetType = "Account"
	AssetLoan       AssetType = "Loan"
	AssetInvestment AssetType = "Investment"
)

type (
	AssetType string

	// Transaction is one financial event from the feed. The feed is
	// read-only from this package's point of view: transactions are created
	// externally and never mutated. ID is a display aid only; the sample
	// feeds contain duplicate IDs across months, so it must never be used
	// as a lookup key.
	Transaction struct {
		ID     int             `json:"id"`
		Date   string          `json:"date"` // M/D/YYYY
		Tag    string          `json:"tag"`
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
	}

	// Budget is the user's spending ceiling for one category. AmountSpent
	// is a derived cache of the signed category total for the active
	// period; it is recomputed from the feed, never authored directly.
	Budget struct {
		Category    string          `json:"category"`
		Budgeted    decimal.Decimal `json:"budgeted"`
		AmountSpent decimal.Decimal `json:"amountSpent"`
	}

	// Asset is a named balance contributing to net worth. Balance is stored
	// as a positive magnitude; whether it adds or subtracts is decided by
	// Type, not by the stored sign.
	Asset struct {
		Type    AssetType       `json:"type"`
		Name    string          `json:"name"`
		Balance decimal.Decimal `json:"balance"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrNegativeBudget   = errors.New("negative budget ceiling")
	ErrEmptyAssetName   = errors.New("empty asset name")
	ErrInvalidAssetType = errors.New("invalid asset type")
)

// dateLayout matches the feed's M/D/YYYY date strings (no zero padding).
const dateLayout = "1/2/2006"

// ParseDate parses a feed date string. A failure here is a data-quality
// signal about the transaction, not an engine fault; period filtering
// excludes such transactions rather than erroring.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

// ParsedDate returns the transaction's calendar date, or an error when the
// stored string is malformed.
func (t Transaction) ParsedDate() (time.Time, error) {
	return ParseDate(t.Date)
}

// IsIncome reports whether the transaction carries the reserved inflow tag.
// The tag is authoritative; the sign of Amount is not trusted.
func (t Transaction) IsIncome() bool {
	return t.Tag == IncomeTag
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Budgeted.IsNegative() {
		return ErrNegativeBudget
	}
	return nil
}

func (at AssetType) Valid() bool {
	switch at {
	case AssetAccount, AssetLoan, AssetInvestment:
		return true
	default:
		return false
	}
}

func (a Asset) Validate() error {
	if !a.Type.Valid() {
		return ErrInvalidAssetType
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAssetName
	}
	return nil
}
