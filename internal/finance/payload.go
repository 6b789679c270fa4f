package finance

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Режим парковой комиссии.
type ParkMode string

const (
	ParkModeNone    ParkMode = "none"
	ParkModeDay     ParkMode = "day"
	ParkModeOrder   ParkMode = "order"
	ParkModePercent ParkMode = "percent"
)

// Налоговый режим водителя.
type TaxMode string

const (
	TaxModeNone  TaxMode = "none"  // налог не считаем
	TaxModeSelf4 TaxMode = "self4" // самозанятый, 4% с дохода
	TaxModeIP6   TaxMode = "ip6"   // ИП на УСН, 6% с дохода
)

type ParkSettings struct {
	Mode     ParkMode
	DayFee   float64
	OrderFee float64
	Percent  float64
}

type Settings struct {
	Park    ParkSettings
	TaxMode TaxMode
}

// Payload — типизированный снимок открытой карты бизнес-полей смены.
// Клиент шлёт что угодно; здесь всё сводится к числам и закрытым enum'ам,
// чтобы расчётные ветки были исчерпывающими.
type Payload struct {
	Income       float64
	Tips         float64
	OtherIncome  float64
	Orders       float64
	Rent         float64
	Fuel         float64
	OtherExpense float64
	Fines        float64

	// Ручные правки: доминируют над любым расчётом.
	CommissionManual *float64
	TaxManual        *float64

	Settings Settings
}

// ParsePayload достаёт распознанные поля из открытой карты.
// Лишние ключи игнорируются, кривые значения деградируют в ноль —
// движок никогда не падает на мусорном payload.
func ParsePayload(raw map[string]any) Payload {
	p := Payload{
		Income:       amount(raw["income"]),
		Tips:         amount(raw["tips"]),
		OtherIncome:  amount(raw["otherIncome"]),
		Orders:       amount(raw["orders"]),
		Rent:         amount(raw["rent"]),
		Fuel:         amount(raw["fuel"]),
		OtherExpense: amount(raw["otherExpense"]),
		Fines:        amount(raw["fines"]),
	}

	if v, ok := number(raw["commissionManual"]); ok {
		p.CommissionManual = &v
	}
	if v, ok := number(raw["taxManual"]); ok {
		p.TaxManual = &v
	}

	settings, _ := raw["settings"].(map[string]any)
	if park, ok := settings["park"].(map[string]any); ok {
		p.Settings.Park = ParkSettings{
			Mode:     ParkMode(str(park["mode"])),
			DayFee:   amount(park["dayFee"]),
			OrderFee: amount(park["orderFee"]),
			Percent:  amount(park["percent"]),
		}
	}
	p.Settings.TaxMode = TaxMode(str(settings["taxMode"]))

	return p
}

// number приводит произвольное JSON-значение к конечному float64.
// Числовые строки принимаем, NaN/Inf и прочий мусор — нет.
func number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// amount — неотрицательное денежное поле: отсутствует/не число/минус → 0.
func amount(v any) float64 {
	f, ok := number(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
