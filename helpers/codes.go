package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

func randomHex(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the host is broken; zeroes keep the
		// format valid.
		return strings.Repeat("0", n)
	}
	return strings.ToUpper(hex.EncodeToString(b))[:n]
}

// RandomInt returns a uniform integer in [1, max] using crypto/rand.
func RandomInt(max int) int {
	if max <= 0 {
		return 1
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 1
	}
	return int(n.Int64()) + 1
}

// GenerateReferralCode builds the permanent referral code for an identity:
// the identity's first three characters plus a random hex tail.
func GenerateReferralCode(identity string) string {
	prefix := strings.ToUpper(identity)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for len(prefix) < 3 {
		prefix += "X"
	}
	return fmt.Sprintf("%s-%s", prefix, randomHex(5))
}

// GenerateGiftCode builds a campaign-prefixed single-use code, e.g.
// PROMO1-AB12-CD34-EF56. The prefix groups the batch for one-per-user
// campaign dedup.
func GenerateGiftCode(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	return fmt.Sprintf("%s-%s-%s-%s", prefix, randomHex(4), randomHex(4), randomHex(4))
}

// GenerateCouponCode builds the code handed to the coupon issuer after a
// vault redemption commits.
func GenerateCouponCode() string {
	return "VAULT-" + randomHex(6)
}
