package utils

import "github.com/shopspring/decimal"

const netEnergyPlaces = 2

// NetEnergy returns generated - consumed rounded half-to-even to 2 places.
func NetEnergy(generated, consumed decimal.Decimal) decimal.Decimal {
	return generated.Sub(consumed).RoundBank(netEnergyPlaces)
}
