package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
)

const testBotToken = "123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11"

// signInitData собирает initData так же, как это делает клиент Telegram:
// сортированные поля, подпись производным ключом от токена бота.
func signInitData(t *testing.T, fields map[string]string, botToken string) string {
	t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}

	secretMac := hmac.New(sha256.New, []byte("WebAppData"))
	secretMac.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secretMac.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(fields[k]))
	}
	parts = append(parts, "hash="+hash)
	return strings.Join(parts, "&")
}

func validFields(now int64) map[string]string {
	return map[string]string{
		"auth_date":   strconv.FormatInt(now, 10),
		"query_id":    "AAH9mUEUAAAAAP2ZQRQ0-Pqe",
		"user":        `{"id":99,"first_name":"Ivan","last_name":"Petrov","username":"ivan_drives","language_code":"ru"}`,
		"start_param": "ref_42",
	}
}

func TestVerify_OK(t *testing.T) {
	now := int64(1_700_000_000)
	raw := signInitData(t, validFields(now), testBotToken)

	data, err := Verify(raw, testBotToken, now)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if data.User.ID != 99 {
		t.Fatalf("user id = %d, want 99", data.User.ID)
	}
	if data.User.Username != "ivan_drives" {
		t.Fatalf("username = %q", data.User.Username)
	}
	if data.AuthDate != now {
		t.Fatalf("auth_date = %d, want %d", data.AuthDate, now)
	}
	if got := data.StartParam(); got != "ref_42" {
		t.Fatalf("start_param = %q, want ref_42", got)
	}
}

func TestVerify_TamperedHash(t *testing.T) {
	now := int64(1_700_000_000)
	raw := signInitData(t, validFields(now), testBotToken)

	// Переворачиваем один символ подписи, оставаясь в hex-алфавите.
	i := strings.LastIndex(raw, "hash=") + len("hash=")
	flipped := byte('0')
	if raw[i] == '0' {
		flipped = '1'
	}
	raw = raw[:i] + string(flipped) + raw[i+1:]

	if _, err := Verify(raw, testBotToken, now); !errors.Is(err, ErrBadHash) {
		t.Fatalf("err = %v, want ErrBadHash", err)
	}
}

func TestVerify_TamperedField(t *testing.T) {
	now := int64(1_700_000_000)
	fields := validFields(now)
	raw := signInitData(t, fields, testBotToken)
	raw = strings.Replace(raw, "ref_42", "ref_43", 1)

	if _, err := Verify(raw, testBotToken, now); !errors.Is(err, ErrBadHash) {
		t.Fatalf("err = %v, want ErrBadHash", err)
	}
}

func TestVerify_EmptyInput(t *testing.T) {
	if _, err := Verify("", testBotToken, 0); !errors.Is(err, ErrNoInitData) {
		t.Fatalf("err = %v, want ErrNoInitData", err)
	}
}

func TestVerify_NoHash(t *testing.T) {
	if _, err := Verify("auth_date=1&user=%7B%7D", testBotToken, 1); !errors.Is(err, ErrNoHash) {
		t.Fatalf("err = %v, want ErrNoHash", err)
	}
}

func TestVerify_NoBotToken(t *testing.T) {
	now := int64(1_700_000_000)
	raw := signInitData(t, validFields(now), testBotToken)
	if _, err := Verify(raw, "", now); !errors.Is(err, ErrNoBotToken) {
		t.Fatalf("err = %v, want ErrNoBotToken", err)
	}
}

func TestVerify_WrongBotToken(t *testing.T) {
	now := int64(1_700_000_000)
	raw := signInitData(t, validFields(now), testBotToken)
	if _, err := Verify(raw, "999999:other-token", now); !errors.Is(err, ErrBadHash) {
		t.Fatalf("err = %v, want ErrBadHash", err)
	}
}

func TestVerify_FreshnessBoundary(t *testing.T) {
	authDate := int64(1_700_000_000)
	raw := signInitData(t, validFields(authDate), testBotToken)

	// Ровно на границе окна — ещё свежо.
	if _, err := Verify(raw, testBotToken, authDate+MaxAuthAge); err != nil {
		t.Fatalf("now-300: %v", err)
	}
	// Секундой позже — уже нет.
	if _, err := Verify(raw, testBotToken, authDate+MaxAuthAge+1); !errors.Is(err, ErrStaleAuth) {
		t.Fatalf("now-301: err = %v, want ErrStaleAuth", err)
	}
	// Подпись из будущего дальше окна тоже отклоняем.
	if _, err := Verify(raw, testBotToken, authDate-MaxAuthAge-1); !errors.Is(err, ErrStaleAuth) {
		t.Fatalf("future skew: err = %v, want ErrStaleAuth", err)
	}
}

func TestVerify_MissingAuthDate(t *testing.T) {
	now := int64(1_700_000_000)
	fields := validFields(now)
	delete(fields, "auth_date")
	raw := signInitData(t, fields, testBotToken)

	if _, err := Verify(raw, testBotToken, now); !errors.Is(err, ErrStaleAuth) {
		t.Fatalf("err = %v, want ErrStaleAuth", err)
	}
}

func TestVerify_BadUserJSON(t *testing.T) {
	now := int64(1_700_000_000)

	fields := validFields(now)
	fields["user"] = "{not json"
	raw := signInitData(t, fields, testBotToken)
	if _, err := Verify(raw, testBotToken, now); !errors.Is(err, ErrBadUserJSON) {
		t.Fatalf("broken json: err = %v, want ErrBadUserJSON", err)
	}

	fields = validFields(now)
	fields["user"] = `{"first_name":"no id"}`
	raw = signInitData(t, fields, testBotToken)
	if _, err := Verify(raw, testBotToken, now); !errors.Is(err, ErrBadUserJSON) {
		t.Fatalf("missing id: err = %v, want ErrBadUserJSON", err)
	}

	fields = validFields(now)
	delete(fields, "user")
	raw = signInitData(t, fields, testBotToken)
	if _, err := Verify(raw, testBotToken, now); !errors.Is(err, ErrBadUserJSON) {
		t.Fatalf("no user field: err = %v, want ErrBadUserJSON", err)
	}
}

func TestVerify_UppercaseHashAccepted(t *testing.T) {
	now := int64(1_700_000_000)
	raw := signInitData(t, validFields(now), testBotToken)
	i := strings.LastIndex(raw, "hash=") + len("hash=")
	raw = raw[:i] + strings.ToUpper(raw[i:])

	if _, err := Verify(raw, testBotToken, now); err != nil {
		t.Fatalf("uppercase hex: %v", err)
	}
}
