package service

import "errors"

// Ошибки бизнес-уровня. В коды и HTTP-статусы их превращает httpapi.
var (
	ErrCarIDRequired = errors.New("car id is required")
	ErrDateRequired  = errors.New("date is required")
	ErrEmptyItems    = errors.New("items list is empty")
	// ErrNotFound одинаково означает «нет такой строки» и «строка чужая» —
	// различать их наружу нельзя.
	ErrNotFound = errors.New("shift not found")
)
