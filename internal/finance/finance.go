package finance

import "math"

// Breakdown — производные показатели одной смены. Нигде не хранится,
// всегда пересчитывается из payload.
type Breakdown struct {
	Gross      float64 `json:"gross"`
	Commission float64 `json:"commission"`
	Tax        float64 `json:"tax"`
	Costs      float64 `json:"costs"`
	Profit     float64 `json:"profit"`
}

// Commission считает парковую комиссию смены.
// Ручная правка доминирует: округляется и не бывает отрицательной.
func Commission(p Payload) float64 {
	if p.CommissionManual != nil {
		return math.Max(0, math.Round(*p.CommissionManual))
	}

	park := p.Settings.Park
	switch park.Mode {
	case ParkModeDay:
		// Дневная аренда списывается, только если смена не пустая.
		if p.Income > 0 || p.Orders > 0 || p.OtherIncome > 0 || p.Tips > 0 {
			return park.DayFee
		}
		return 0
	case ParkModeOrder:
		return p.Orders * park.OrderFee
	case ParkModePercent:
		return p.Income * park.Percent / 100
	default:
		// none и любой неизвестный режим.
		return 0
	}
}

// Tax считает налог с дохода по режиму водителя.
func Tax(p Payload) float64 {
	if p.TaxManual != nil {
		return math.Max(0, math.Round(*p.TaxManual))
	}

	switch p.Settings.TaxMode {
	case TaxModeSelf4:
		return p.Income * 0.04
	case TaxModeIP6:
		return p.Income * 0.06
	default:
		return 0
	}
}

// Profit сводит смену: валовый доход, издержки и чистая прибыль.
func Profit(p Payload) Breakdown {
	gross := p.Income + p.Tips + p.OtherIncome
	commission := Commission(p)
	tax := Tax(p)
	costs := p.Rent + p.Fuel + p.OtherExpense + p.Fines + commission + tax

	return Breakdown{
		Gross:      gross,
		Commission: commission,
		Tax:        tax,
		Costs:      costs,
		Profit:     gross - costs,
	}
}
