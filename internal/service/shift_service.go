package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/shiftbook/backend/internal/model"
	"github.com/shiftbook/backend/internal/repository"
)

// ShiftInput — данные одной смены от клиента.
type ShiftInput struct {
	CarID    string         `json:"carId"`
	CarName  string         `json:"carName"`
	CarClass string         `json:"carClass"`
	Date     string         `json:"date"`
	Payload  map[string]any `json:"payload"`
}

// ListFilter — параметры GET /api/shifts.
type ListFilter struct {
	From         string
	To           string
	CarID        string
	UpdatedSince string // RFC3339; нечитаемое значение молча игнорируется
}

// BulkResult — исход одного элемента пакетного upsert'а.
type BulkResult struct {
	Idx       int        `json:"idx"`
	OK        bool       `json:"ok"`
	ID        string     `json:"id,omitempty"`
	CarID     string     `json:"carId,omitempty"`
	Date      string     `json:"date,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Коды ошибок отдельных элементов пакета.
const (
	bulkErrCarIDAndDate = "CAR_ID_AND_DATE_REQUIRED"
	bulkErrUpsertFailed = "UPSERT_FAILED"
)

// ShiftService — владелец журнала смен. Все операции скоупятся
// проверенной идентичностью.
type ShiftService struct {
	shifts repository.ShiftRepository
	log    *zap.Logger
}

func NewShiftService(shifts repository.ShiftRepository, log *zap.Logger) *ShiftService {
	return &ShiftService{shifts: shifts, log: log}
}

// Upsert создаёт или целиком перезаписывает смену по тройке
// (tgID, carId, date).
func (s *ShiftService) Upsert(ctx context.Context, tgID int64, in ShiftInput) (*model.Shift, error) {
	if in.CarID == "" {
		return nil, ErrCarIDRequired
	}
	if in.Date == "" {
		return nil, ErrDateRequired
	}

	payload := in.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	return s.shifts.Upsert(ctx, &model.Shift{
		TgID:     tgID,
		CarID:    in.CarID,
		CarName:  in.CarName,
		CarClass: in.CarClass,
		Date:     in.Date,
		Payload:  payload,
	})
}

// BulkUpsert применяет элементы независимо: кривой или не записавшийся
// элемент получает свой слот ошибки, остальные не страдают. Это путь
// офлайн-клиента, переигрывающего очередь локальных правок, поэтому
// повторная отправка уже применённого элемента безопасна.
func (s *ShiftService) BulkUpsert(ctx context.Context, tgID int64, items []ShiftInput) ([]BulkResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	results := make([]BulkResult, 0, len(items))
	for i, in := range items {
		if in.CarID == "" || in.Date == "" {
			results = append(results, BulkResult{Idx: i, Error: bulkErrCarIDAndDate})
			continue
		}

		shift, err := s.Upsert(ctx, tgID, in)
		if err != nil {
			s.log.Error("bulk upsert item failed",
				zap.Int64("tg_id", tgID),
				zap.Int("idx", i),
				zap.String("car_id", in.CarID),
				zap.String("date", in.Date),
				zap.Error(err))
			results = append(results, BulkResult{Idx: i, Error: bulkErrUpsertFailed})
			continue
		}

		updatedAt := shift.UpdatedAt
		results = append(results, BulkResult{
			Idx:       i,
			OK:        true,
			ID:        shift.ID.String(),
			CarID:     shift.CarID,
			Date:      shift.Date,
			UpdatedAt: &updatedAt,
		})
	}
	return results, nil
}

// List возвращает смены владельца по фильтру, по возрастанию даты.
func (s *ShiftService) List(ctx context.Context, tgID int64, f ListFilter) ([]model.Shift, error) {
	filter := repository.ShiftFilter{
		From:  f.From,
		To:    f.To,
		CarID: f.CarID,
	}
	if f.UpdatedSince != "" {
		if ts, err := time.Parse(time.RFC3339, f.UpdatedSince); err == nil {
			filter.UpdatedSince = &ts
		}
		// нечитаемый updatedSince игнорируем — клиент получит полный список
	}
	return s.shifts.Find(ctx, tgID, filter)
}

func (s *ShiftService) Get(ctx context.Context, tgID int64, id string) (*model.Shift, error) {
	shift, err := s.shifts.GetByID(ctx, tgID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return shift, nil
}

// Update меняет смену по id: payload заменяется целиком, если прислан;
// carName/carClass и date — только непустыми значениями.
func (s *ShiftService) Update(ctx context.Context, tgID int64, id string, in ShiftInput) (*model.Shift, error) {
	updates := map[string]any{}
	if in.Payload != nil {
		updates["payload"] = datatypes.JSONMap(in.Payload)
	}
	if in.CarName != "" {
		updates["car_name"] = in.CarName
	}
	if in.CarClass != "" {
		updates["car_class"] = in.CarClass
	}
	if in.Date != "" {
		updates["date"] = in.Date
	}

	shift, err := s.shifts.UpdateByID(ctx, tgID, id, updates)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return shift, nil
}

func (s *ShiftService) Delete(ctx context.Context, tgID int64, id string) error {
	if err := s.shifts.DeleteByID(ctx, tgID, id); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
