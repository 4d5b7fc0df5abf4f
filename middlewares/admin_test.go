package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newAdminApp() *fiber.App {
	app := fiber.New()
	app.Post("/admin/ping", AdminAuth(), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func signAdmin(key, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(key + secret))
	return hex.EncodeToString(h.Sum(nil))
}

func TestAdminAuth(t *testing.T) {
	t.Setenv("ADMIN_API_KEY", "test-key")
	t.Setenv("ADMIN_API_SECRET", "test-secret")
	app := newAdminApp()

	req := httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing signature: want 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
	req.Header.Set("X-Admin-Signature", "deadbeef")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad signature: want 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
	req.Header.Set("X-Admin-Signature", signAdmin("test-key", "test-secret"))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid signature: want 200, got %d", resp.StatusCode)
	}
}

func TestClientIPResolution(t *testing.T) {
	app := fiber.New()
	app.Use(ClientInfo())
	app.Get("/echo", func(c *fiber.Ctx) error {
		return c.SendString(ClientIP(c))
	})

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cdn header wins", map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}, "1.2.3.4"},
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "5.6.7.8, 9.9.9.9"}, "5.6.7.8"},
		{"garbage falls back", map[string]string{"CF-Connecting-IP": "not-an-ip"}, "0.0.0.0"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if got := string(body); got != tc.want {
			t.Errorf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestHashFingerprintStable(t *testing.T) {
	a := HashFingerprint("device-1")
	b := HashFingerprint("device-1")
	c := HashFingerprint("device-2")
	if a != b {
		t.Fatal("same input must hash identically")
	}
	if a == c {
		t.Fatal("different inputs must not collide")
	}
	if len(a) != 64 {
		t.Fatalf("want hex sha256, got %d chars", len(a))
	}
}
