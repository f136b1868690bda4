package providers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFacebookResolveEmail(t *testing.T) {
	const appSecret = "app-secret"
	const token = "user-access-token"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me" {
			t.Errorf("Expected /me, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("fields") != "email" {
			t.Errorf("Expected fields=email, got %q", q.Get("fields"))
		}
		if q.Get("access_token") != token {
			t.Errorf("Expected the access token to be forwarded, got %q", q.Get("access_token"))
		}

		mac := hmac.New(sha256.New, []byte(appSecret))
		mac.Write([]byte(token))
		if want := hex.EncodeToString(mac.Sum(nil)); q.Get("appsecret_proof") != want {
			t.Errorf("Expected appsecret_proof %q, got %q", want, q.Get("appsecret_proof"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email": "a@example.com", "id": "12345"}`))
	}))
	defer server.Close()

	fb := &Facebook{AppSecret: appSecret, GraphURL: server.URL}
	email, err := fb.ResolveEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("ResolveEmail failed: %v", err)
	}
	if email != "a@example.com" {
		t.Errorf("Expected a@example.com, got %q", email)
	}
}

func TestFacebookResolveEmailErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"rejected token", `{"error": {"message": "Invalid OAuth access token.", "type": "OAuthException", "code": 190}}`},
		{"no email permission", `{"id": "12345"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			fb := &Facebook{AppSecret: "app-secret", GraphURL: server.URL}
			if _, err := fb.ResolveEmail(context.Background(), "some-token"); err == nil {
				t.Error("Expected ResolveEmail to fail")
			}
		})
	}
}
