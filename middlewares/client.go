package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientInfo resolves the caller's IP (trusting the CDN header first) and
// hashes the raw device fingerprint before anything downstream sees it.
func ClientInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("client_ip", clientIP(c))

		if fp := c.Get("X-Device-Fingerprint"); fp != "" {
			c.Locals("device_fp", HashFingerprint(fp))
		}
		return c.Next()
	}
}

// ClientIP reads the value ClientInfo stored for this request.
func ClientIP(c *fiber.Ctx) string {
	ip, _ := c.Locals("client_ip").(string)
	return ip
}

// DeviceFP reads the hashed fingerprint, empty when the client sent none.
func DeviceFP(c *fiber.Ctx) string {
	fp, _ := c.Locals("device_fp").(string)
	return fp
}

func clientIP(c *fiber.Ctx) string {
	ip := c.Get("CF-Connecting-IP")
	if ip == "" {
		if fwd := c.Get("X-Forwarded-For"); fwd != "" {
			ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	if ip == "" {
		ip = c.IP()
	}
	if net.ParseIP(ip) == nil {
		return "0.0.0.0"
	}
	return ip
}

// HashFingerprint keeps raw device fingerprints out of storage.
func HashFingerprint(fp string) string {
	sum := sha256.Sum256([]byte(fp + os.Getenv("FINGERPRINT_SALT")))
	return hex.EncodeToString(sum[:])
}
