package payout

import "github.com/shopspring/decimal"

// MinimumPayout is the smallest commission total that generates a payout.
// Smaller balances roll forward to a later period.
var MinimumPayout = decimal.RequireFromString("50.00")
