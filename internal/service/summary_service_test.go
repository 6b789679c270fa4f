package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shiftbook/backend/internal/model"
	"github.com/shiftbook/backend/internal/repository"
)

// Сидим журнал: две машины, три смены, у A — процентная комиссия парка.
func newSeededSummaryService(t *testing.T) (*SummaryService, *ShiftService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	repo := repository.NewGormShiftRepository(db)
	shifts := NewShiftService(repo, zap.NewNop())
	ctx := context.Background()

	seeds := []ShiftInput{
		{
			CarID: "A", CarName: "Kia Rio", CarClass: "econom", Date: "2024-01-01",
			Payload: map[string]any{
				"income": 1000.0,
				"fuel":   100.0,
				"settings": map[string]any{
					"park": map[string]any{"mode": "percent", "percent": 10.0},
				},
			},
		},
		{
			CarID: "A", Date: "2024-01-03",
			Payload: map[string]any{
				"income": 2000.0,
				"settings": map[string]any{
					"park": map[string]any{"mode": "percent", "percent": 10.0},
				},
			},
		},
		{
			CarID: "B", CarName: "Skoda Octavia", CarClass: "comfort", Date: "2024-01-02",
			Payload: map[string]any{"income": 500.0, "tips": 50.0},
		},
	}
	for i, in := range seeds {
		if _, err := shifts.Upsert(ctx, 10, in); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	// Чужая смена — не должна попасть ни в один свод.
	if _, err := shifts.Upsert(ctx, 11, ShiftInput{
		CarID: "A", Date: "2024-01-01", Payload: map[string]any{"income": 9999.0},
	}); err != nil {
		t.Fatalf("seed foreign: %v", err)
	}

	return NewSummaryService(repo), shifts
}

func TestSummaryService_ByCar(t *testing.T) {
	svc, _ := newSeededSummaryService(t)

	cars, err := svc.ByCar(context.Background(), 10)
	if err != nil {
		t.Fatalf("byCar: %v", err)
	}
	if len(cars) != 2 {
		t.Fatalf("cars = %d, want 2", len(cars))
	}

	byID := map[string]CarSummary{}
	for _, c := range cars {
		byID[c.CarID] = c
	}

	a := byID["A"]
	if a.Days != 2 {
		t.Fatalf("A days = %d, want 2", a.Days)
	}
	if a.CarName != "Kia Rio" || a.CarClass != "econom" {
		t.Fatalf("A meta = %q/%q (first seen must stick)", a.CarName, a.CarClass)
	}
	if a.Income != 3000 {
		t.Fatalf("A income = %v, want 3000", a.Income)
	}
	// День 1: gross 1000, costs 100+100 → profit 800.
	// День 3: gross 2000, costs 200 → profit 1800.
	if a.Gross != 3000 || a.Profit != 2600 {
		t.Fatalf("A gross/profit = %v/%v, want 3000/2600", a.Gross, a.Profit)
	}
	if a.LastDate != "2024-01-03" {
		t.Fatalf("A lastDate = %q", a.LastDate)
	}

	b := byID["B"]
	if b.Days != 1 || b.Income != 500 || b.Gross != 550 || b.Profit != 550 {
		t.Fatalf("B = %+v", b)
	}
}

func TestSummaryService_CarSummaryRange(t *testing.T) {
	svc, _ := newSeededSummaryService(t)
	ctx := context.Background()

	full, err := svc.CarSummary(ctx, 10, "A", "", "")
	if err != nil {
		t.Fatalf("carSummary: %v", err)
	}
	if full.Total.Days != 2 || full.Total.Profit != 2600 {
		t.Fatalf("full total = %+v", full.Total)
	}
	if full.Meta.CarName != "Kia Rio" {
		t.Fatalf("meta = %+v", full.Meta)
	}

	ranged, err := svc.CarSummary(ctx, 10, "A", "2024-01-02", "2024-01-03")
	if err != nil {
		t.Fatalf("carSummary ranged: %v", err)
	}
	if ranged.Total.Days != 1 || ranged.Total.Income != 2000 {
		t.Fatalf("ranged total = %+v", ranged.Total)
	}

	empty, err := svc.CarSummary(ctx, 10, "A", "2025-01-01", "2025-12-31")
	if err != nil {
		t.Fatalf("carSummary empty: %v", err)
	}
	if empty.Total.Days != 0 || empty.Meta.CarName != "" {
		t.Fatalf("empty = %+v", empty)
	}
}

func TestSummaryService_UserSummary(t *testing.T) {
	svc, _ := newSeededSummaryService(t)

	sum, err := svc.UserSummary(context.Background(), 10)
	if err != nil {
		t.Fatalf("userSummary: %v", err)
	}

	if sum.Total.Days != 3 {
		t.Fatalf("total days = %d, want 3", sum.Total.Days)
	}
	if sum.Total.Income != 3500 {
		t.Fatalf("total income = %v, want 3500", sum.Total.Income)
	}
	if sum.Total.Gross != 3550 {
		t.Fatalf("total gross = %v, want 3550", sum.Total.Gross)
	}
	if sum.Total.Profit != 3150 {
		t.Fatalf("total profit = %v, want 3150", sum.Total.Profit)
	}
	if len(sum.Cars) != 2 {
		t.Fatalf("cars = %d, want 2", len(sum.Cars))
	}
}
