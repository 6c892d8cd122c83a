// Package auth verifies Telegram Mini App init-data: a URL-encoded set of
// key/value pairs signed by the platform with a keyed hash derived from the
// bot token.
package auth

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
	"time"
)

// Domain-separation key Telegram uses to derive the signing secret.
const signKeyDomain = "WebAppData"

var (
	ErrBadPayload   = errors.New("malformed init data")
	ErrBadSignature = errors.New("bad signature")
	ErrExpired      = errors.New("expired")
	ErrMissingUser  = errors.New("missing user")
)

// User is the profile object embedded in the init-data "user" field.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

// Verify validates initData against botToken and returns the authenticated
// user ID. maxAge bounds the age of the embedded auth_date; zero disables
// the freshness check.
func Verify(initData, botToken string, maxAge time.Duration) (int64, error) {
	user, err := VerifyUser(initData, botToken, maxAge)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// VerifyUser is Verify returning the full embedded user profile.
func VerifyUser(initData, botToken string, maxAge time.Duration) (*User, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrBadPayload
	}

	provided := values.Get("hash")
	if provided == "" {
		return nil, ErrBadSignature
	}
	values.Del("hash")

	computed := sign(values, botToken)
	// Constant-time comparison; the signature check must not leak a prefix
	// match through timing.
	if !hmac.Equal([]byte(computed), []byte(strings.ToLower(provided))) {
		return nil, ErrBadSignature
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return nil, ErrExpired
		}
		if time.Since(time.Unix(authDate, 0)) > maxAge {
			return nil, ErrExpired
		}
	}

	var user User
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, ErrMissingUser
	}

	return &user, nil
}

// Sign computes the lowercase hex signature over the given pairs. Exposed
// so callers (and tests) can produce payloads the verifier accepts.
func Sign(values url.Values, botToken string) string {
	return sign(values, botToken)
}

func sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	payload := strings.Join(lines, "\n")

	secret := hmacSHA256([]byte(botToken), []byte(signKeyDomain))
	return hex.EncodeToString(hmacSHA256([]byte(payload), secret))
}

func hmacSHA256(message, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}
