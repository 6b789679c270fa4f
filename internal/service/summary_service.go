package service

import (
	"context"

	"github.com/shiftbook/backend/internal/finance"
	"github.com/shiftbook/backend/internal/model"
	"github.com/shiftbook/backend/internal/repository"
)

// Totals — накопленные показатели набора смен.
type Totals struct {
	Days   int     `json:"days"`
	Income float64 `json:"income"`
	Gross  float64 `json:"gross"`
	Profit float64 `json:"profit"`
}

// CarSummary — свод по одной машине.
type CarSummary struct {
	CarID    string  `json:"carId"`
	CarName  string  `json:"carName,omitempty"`
	CarClass string  `json:"carClass,omitempty"`
	Days     int     `json:"days"`
	Income   float64 `json:"income"`
	Gross    float64 `json:"gross"`
	Profit   float64 `json:"profit"`
	LastDate string  `json:"lastDate,omitempty"`
}

// CarMeta — кэшированные метаданные машины в своде.
type CarMeta struct {
	CarName  string `json:"carName,omitempty"`
	CarClass string `json:"carClass,omitempty"`
}

// CarTotals — свод по одной машине за период.
type CarTotals struct {
	Meta  CarMeta `json:"meta"`
	Total Totals  `json:"total"`
}

// UserTotals — общий свод идентичности с разбивкой по машинам.
type UserTotals struct {
	Total Totals       `json:"total"`
	Cars  []CarSummary `json:"cars"`
}

// SummaryService сворачивает строки журнала в сводки. Производные суммы
// считаются finance-движком на лету и никогда не сохраняются.
type SummaryService struct {
	shifts repository.ShiftRepository
}

func NewSummaryService(shifts repository.ShiftRepository) *SummaryService {
	return &SummaryService{shifts: shifts}
}

// ByCar — свод по каждой машине идентичности. Порядок машин —
// порядок первого появления в журнале; клиент сортирует сам.
func (s *SummaryService) ByCar(ctx context.Context, tgID int64) ([]CarSummary, error) {
	rows, err := s.shifts.Find(ctx, tgID, repository.ShiftFilter{})
	if err != nil {
		return nil, err
	}
	return foldByCar(rows), nil
}

// CarSummary — свод по одной машине за опциональный период.
// Метаданные берутся из первой строки выборки: это осознанно слабая
// гарантия, имя может оказаться не самым свежим.
func (s *SummaryService) CarSummary(ctx context.Context, tgID int64, carID, from, to string) (*CarTotals, error) {
	rows, err := s.shifts.Find(ctx, tgID, repository.ShiftFilter{
		CarID: carID,
		From:  from,
		To:    to,
	})
	if err != nil {
		return nil, err
	}

	out := &CarTotals{}
	if len(rows) > 0 {
		out.Meta = CarMeta{CarName: rows[0].CarName, CarClass: rows[0].CarClass}
	}
	for _, row := range rows {
		addShift(&out.Total, row)
	}
	return out, nil
}

// UserSummary — общий итог плюс разбивка по машинам, той же арифметикой.
func (s *SummaryService) UserSummary(ctx context.Context, tgID int64) (*UserTotals, error) {
	rows, err := s.shifts.Find(ctx, tgID, repository.ShiftFilter{})
	if err != nil {
		return nil, err
	}

	out := &UserTotals{Cars: foldByCar(rows)}
	for _, row := range rows {
		addShift(&out.Total, row)
	}
	return out, nil
}

func foldByCar(rows []model.Shift) []CarSummary {
	cars := make([]CarSummary, 0)
	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.CarID]
		if !ok {
			i = len(cars)
			index[row.CarID] = i
			// Имя и класс — первые встреченные, дальше не переписываем.
			cars = append(cars, CarSummary{
				CarID:    row.CarID,
				CarName:  row.CarName,
				CarClass: row.CarClass,
			})
		}

		c := &cars[i]
		p := finance.ParsePayload(row.Payload)
		b := finance.Profit(p)

		c.Days++
		c.Income += p.Income
		c.Gross += b.Gross
		c.Profit += b.Profit
		if row.Date > c.LastDate {
			c.LastDate = row.Date
		}
	}
	return cars
}

func addShift(t *Totals, row model.Shift) {
	p := finance.ParsePayload(row.Payload)
	b := finance.Profit(p)
	t.Days++
	t.Income += p.Income
	t.Gross += b.Gross
	t.Profit += b.Profit
}
