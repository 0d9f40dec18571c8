package utils

import "github.com/shopspring/decimal"

// IsAnomaly flags a reading whose generated or consumed energy is negative.
// Changing this rule changes the meaning of stored anomaly flags; a new rule
// needs a new name, not an edit here.
func IsAnomaly(generated, consumed decimal.Decimal) bool {
	return generated.IsNegative() || consumed.IsNegative()
}
