package rates

import (
	"github.com/shopspring/decimal"

	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
)

// Unemployment contribution surcharges by contract classification.
// Indefinite contracts carry the general unemployment rate, temporary
// contracts the increased one; any code outside both groups contributes
// no surcharge.
const (
	SurchargeIndefinite = 5.50
	SurchargeTemporary  = 6.70
)

var indefiniteCodes = map[string]struct{}{
	"100": {}, "109": {}, "130": {}, "150": {}, "189": {},
	"200": {}, "230": {}, "250": {}, "289": {},
}

var temporaryCodes = map[string]struct{}{
	"401": {}, "402": {}, "410": {}, "421": {}, "430": {}, "441": {},
	"450": {}, "501": {}, "502": {}, "510": {}, "520": {}, "530": {},
	"540": {}, "550": {},
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// UnemploymentSurcharge looks up the surcharge for a contract code.
// Unrecognized codes map to 0.0; that is data tolerance, not an error.
func UnemploymentSurcharge(contractCode string) float64 {
	if _, ok := indefiniteCodes[contractCode]; ok {
		return SurchargeIndefinite
	}
	if _, ok := temporaryCodes[contractCode]; ok {
		return SurchargeTemporary
	}
	return 0.0
}

// TotalRate is the configured general contribution rate plus the
// unemployment surcharge for the contract code, rounded to 2 decimals.
func TotalRate(generalRate float64, contractCode string) float64 {
	total := decimal.NewFromFloat(generalRate).
		Add(decimal.NewFromFloat(UnemploymentSurcharge(contractCode)))
	return round2(total)
}

// TheoreticalSSCost is the employer social-security cost over a
// contribution base at the given total rate percentage.
func TheoreticalSSCost(base, totalRate float64) float64 {
	cost := decimal.NewFromFloat(base).
		Mul(decimal.NewFromFloat(totalRate)).
		Div(decimal.NewFromInt(100))
	return round2(cost)
}

// HourlyCost divides total perceptions by effective hours. A worker
// with zero effective hours has no defined hourly cost; the second
// return value is false in that case.
func HourlyCost(perceptions, effectiveHours float64) (float64, bool) {
	if effectiveHours == 0 {
		return 0, false
	}
	cost := decimal.NewFromFloat(perceptions).
		Div(decimal.NewFromFloat(effectiveHours))
	return round2(cost), true
}

// RealHourlyCost adds the employer SS cost to the monetary-in-cash
// perceptions before dividing by effective hours.
func RealHourlyCost(cashPerceptions, ssCost, effectiveHours float64) (float64, bool) {
	if effectiveHours == 0 {
		return 0, false
	}
	cost := decimal.NewFromFloat(cashPerceptions).
		Add(decimal.NewFromFloat(ssCost)).
		Div(decimal.NewFromFloat(effectiveHours))
	return round2(cost), true
}

// Enrich fills the rate fields of an audit row from the configured
// general rate and the row's contract code. Self-employed workers quote
// no unemployment contribution.
func Enrich(row *types.AuditRow, generalRate float64) {
	if row.SelfEmployed {
		row.UnemploymentRate = 0.0
		row.TotalRate = round2(decimal.NewFromFloat(generalRate))
		return
	}
	row.UnemploymentRate = UnemploymentSurcharge(row.ContractCode)
	row.TotalRate = TotalRate(generalRate, row.ContractCode)
}
