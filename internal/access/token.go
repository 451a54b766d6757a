// Package access implements the room-access checkpoint: the short-lived
// signed access token, its replay guard, and the authorization engine
// that turns a request into a logged allow/deny decision.
package access

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// FreshnessWindow is the maximum age an access token may have and still
// verify. It bounds replay value without server-side state; the replay
// guard narrows that further to true single use.
const FreshnessWindow = 30 * time.Second

// maxClockSkew tolerates a minting clock slightly ahead of the verifier.
// Anything further in the future is treated as expired.
const maxClockSkew = 5 * time.Second

// Token is the ephemeral proof of request freshness. Not persisted; a
// client mints one immediately before use and a failed attempt requires
// minting a new one.
type Token struct {
	IdentityID string `json:"identity_id"`
	Timestamp  int64  `json:"timestamp"` // unix milliseconds at mint
	Nonce      string `json:"nonce"`
	Signature  string `json:"signature"`
}

// Result of verifying a token. Reason is set only on failure and is safe
// to persist in the audit log.
type Result struct {
	OK     bool
	Reason string
}

// Codec mints and verifies access tokens. Stateless; safe for concurrent
// use.
type Codec struct {
	secret string
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Mint generates a token for identityID: 16 bytes of nonce entropy, the
// current timestamp, and a signature binding both to the identity and the
// server secret.
func (c *Codec) Mint(identityID string) (Token, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return Token{}, fmt.Errorf("generate nonce: %w", err)
	}
	ts := c.now().UnixMilli()
	tok := Token{
		IdentityID: identityID,
		Timestamp:  ts,
		Nonce:      hex.EncodeToString(nonce),
	}
	tok.Signature = c.sign(tok.IdentityID, tok.Timestamp, tok.Nonce)
	return tok, nil
}

// Verify checks freshness first, then the signature. The signature
// comparison is constant-time so a mismatch position cannot be observed.
func (c *Codec) Verify(tok Token) Result {
	age := c.now().Sub(time.UnixMilli(tok.Timestamp))
	if age > FreshnessWindow || age < -maxClockSkew {
		return Result{OK: false, Reason: ReasonTokenExpired}
	}

	expected := c.sign(tok.IdentityID, tok.Timestamp, tok.Nonce)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(tok.Signature)) != 1 {
		return Result{OK: false, Reason: ReasonBadSignature}
	}

	return Result{OK: true}
}

func (c *Codec) sign(identityID string, ts int64, nonce string) string {
	sum := sha256.Sum256([]byte(identityID + strconv.FormatInt(ts, 10) + nonce + c.secret))
	return hex.EncodeToString(sum[:])
}
