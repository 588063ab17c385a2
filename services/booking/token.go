package booking

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TokenAuthority issues and verifies signed, single-use, time-boxed
// booking credentials. The wire format is "sessionID:unixSeconds.hexSig"
// where the signature is HMAC-SHA256 over the payload before the dot.
type TokenAuthority struct {
	Secret string
	TTL    time.Duration
	Store  TokenStore

	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// Issue mints a token binding the session to the current instant.
func (a *TokenAuthority) Issue(sessionID string) string {
	payload := fmt.Sprintf("%s:%d", sessionID, a.now().Unix())
	return payload + "." + a.sign(payload)
}

// Verify rejects already-used tokens, checks structure, signature,
// session binding and TTL, then consumes the token. Consumption happens
// before the caller gets to the OTP check: a verified token is burned
// even if the rest of the confirmation fails.
func (a *TokenAuthority) Verify(ctx context.Context, token, sessionID string) error {
	// Replays are reported as used no matter what else is wrong with the
	// token, so an expired replay still reads as a duplicate submission.
	used, err := a.Store.Used(ctx, token)
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	if used {
		return ErrTokenUsed
	}

	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ErrTokenMalformed
	}
	payload, signature := parts[0], parts[1]

	expected := a.sign(payload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrTokenSignature
	}

	sep := strings.LastIndex(payload, ":")
	if sep <= 0 || sep == len(payload)-1 {
		return ErrTokenMalformed
	}
	sid := payload[:sep]
	issuedAt, err := strconv.ParseInt(payload[sep+1:], 10, 64)
	if err != nil {
		return ErrTokenMalformed
	}

	if sid != sessionID {
		return ErrTokenSessionMismatch
	}
	if a.now().Unix()-issuedAt > int64(a.TTL.Seconds()) {
		return ErrTokenExpired
	}

	// Single use: compare-and-insert so concurrent presentations of the
	// same token admit at most one caller.
	alreadyUsed, err := a.Store.Consume(ctx, token)
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	if alreadyUsed {
		return ErrTokenUsed
	}
	return nil
}

func (a *TokenAuthority) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(a.Secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *TokenAuthority) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
