package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Ошибки проверки initData. Наружу отдаются как машинные коды
// (no_init_data, bad_hash и т.д.) — маппинг лежит в httpapi.
var (
	ErrNoInitData  = errors.New("init data is empty")
	ErrNoHash      = errors.New("init data has no hash field")
	ErrNoBotToken  = errors.New("bot token is not configured")
	ErrBadHash     = errors.New("init data hash mismatch")
	ErrStaleAuth   = errors.New("init data auth_date is stale")
	ErrBadUserJSON = errors.New("init data user field is not valid json")
)

// MaxAuthAge — окно свежести auth_date в секундах. Не настраивается:
// всё, что старше (или уехало в будущее дальше окна), отклоняем.
const MaxAuthAge = 300

// WebAppUser — объект user внутри initData.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	PhotoURL     string `json:"photo_url"`
	IsPremium    bool   `json:"is_premium"`
}

// InitData — результат успешной проверки: доверенная идентичность
// плюс полная карта полей (там живёт, например, start_param).
type InitData struct {
	User     WebAppUser
	AuthDate int64
	Fields   map[string]string
}

// StartParam возвращает реферальный параметр запуска, если он был.
func (d *InitData) StartParam() string {
	return d.Fields["start_param"]
}

// Verify проверяет строку initData по опубликованной схеме Telegram WebApp:
//  1. разобрать пары key=value (URL-кодирование);
//  2. вынуть hash;
//  3. отсортировать остальные ключи, склеить "key=value" через \n;
//  4. secret = HMAC-SHA256(key="WebAppData", msg=botToken);
//  5. сверить HMAC-SHA256(secret, checkString) с hash (константное время);
//  6. auth_date не старше MaxAuthAge относительно now;
//  7. поле user — JSON с числовым id.
//
// Функция чистая: никакого I/O и общего состояния, все три входа явные.
func Verify(raw, botToken string, now int64) (*InitData, error) {
	if raw == "" {
		return nil, ErrNoInitData
	}

	fields := parsePairs(raw)

	gotHash, ok := fields["hash"]
	if !ok || gotHash == "" {
		return nil, ErrNoHash
	}
	delete(fields, "hash")

	if botToken == "" {
		return nil, ErrNoBotToken
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	checkString := strings.Join(lines, "\n")

	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	sum := hmacSHA256(secret, []byte(checkString))

	want, err := hex.DecodeString(strings.ToLower(gotHash))
	if err != nil || !hmac.Equal(sum, want) {
		return nil, ErrBadHash
	}

	authDate, err := strconv.ParseInt(fields["auth_date"], 10, 64)
	if err != nil || authDate == 0 {
		return nil, ErrStaleAuth
	}
	if delta := now - authDate; delta > MaxAuthAge || delta < -MaxAuthAge {
		return nil, ErrStaleAuth
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(fields["user"]), &user); err != nil || user.ID == 0 {
		return nil, ErrBadUserJSON
	}

	return &InitData{User: user, AuthDate: authDate, Fields: fields}, nil
}

// parsePairs разбирает query-подобную строку. Ключ без '=' трактуем как
// пустое значение; пары, которые не декодируются, берём как есть.
func parsePairs(raw string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		if dk, err := url.QueryUnescape(k); err == nil {
			k = dk
		}
		if dv, err := url.QueryUnescape(v); err == nil {
			v = dv
		}
		fields[k] = v
	}
	return fields
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
