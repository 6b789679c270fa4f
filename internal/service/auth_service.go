package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shiftbook/backend/internal/model"
	"github.com/shiftbook/backend/internal/repository"
	"github.com/shiftbook/backend/internal/telegram"
)

// AuthService проверяет initData и поддерживает Identity/Presence.
type AuthService struct {
	botToken string
	users    repository.UserRepository
	presence repository.PresenceRepository
	log      *zap.Logger
}

func NewAuthService(
	botToken string,
	users repository.UserRepository,
	presence repository.PresenceRepository,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		botToken: botToken,
		users:    users,
		presence: presence,
		log:      log,
	}
}

// Verify только проверяет подпись, ничего не пишет.
// Используется middleware на каждом защищённом запросе.
func (s *AuthService) Verify(raw string) (*telegram.InitData, error) {
	return telegram.Verify(raw, s.botToken, time.Now().Unix())
}

// Authenticate — полный вход: проверка подписи, upsert профиля,
// отметка присутствия. Ошибки проверки возвращаются как есть
// (ошибки telegram-пакета), ошибка записи профиля — обёрнутой.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*telegram.InitData, *model.User, error) {
	data, err := s.Verify(raw)
	if err != nil {
		return nil, nil, err
	}

	u := &model.User{
		TgID:         data.User.ID,
		Username:     data.User.Username,
		FirstName:    data.User.FirstName,
		LastName:     data.User.LastName,
		LanguageCode: data.User.LanguageCode,
		PhotoURL:     data.User.PhotoURL,
	}
	if err := s.users.UpsertFromAuth(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("upsert user: %w", err)
	}

	s.touchPresence(ctx, data.User.ID)
	return data, u, nil
}

// Ping освежает отметку присутствия уже проверенной идентичности.
func (s *AuthService) Ping(ctx context.Context, tgID int64) {
	s.touchPresence(ctx, tgID)
}

// Отметка присутствия — fire-and-forget: её потеря не должна
// ронять аутентификацию.
func (s *AuthService) touchPresence(ctx context.Context, tgID int64) {
	if err := s.presence.Touch(ctx, tgID, time.Now().UTC()); err != nil {
		s.log.Warn("presence touch failed", zap.Int64("tg_id", tgID), zap.Error(err))
	}
}
