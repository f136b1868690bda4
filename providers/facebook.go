package providers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultGraphURL = "https://graph.facebook.com"

// Facebook resolves a Facebook access token through the Graph API. Every
// call carries an appsecret_proof (HMAC-SHA256 of the token under the app
// secret) so a leaked token cannot be replayed from another app.
type Facebook struct {
	AppSecret string

	// Graph API base URL, overridable for tests. Defaults to
	// https://graph.facebook.com
	GraphURL string

	// HTTP client. Defaults to http.DefaultClient
	Client *http.Client
}

func (f *Facebook) ResolveEmail(ctx context.Context, token string) (string, error) {
	base := f.GraphURL
	if base == "" {
		base = defaultGraphURL
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	q := url.Values{}
	q.Set("fields", "email")
	q.Set("access_token", token)
	q.Set("appsecret_proof", f.appSecretProof(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/me?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Facebook profile endpoint: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Email string `json:"email"`
		Error *struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding Facebook profile response: %w", err)
	}
	if body.Error != nil {
		return "", fmt.Errorf("facebook token rejected: %s (code %d)", body.Error.Message, body.Error.Code)
	}
	if body.Email == "" {
		return "", fmt.Errorf("facebook profile has no email field")
	}
	return body.Email, nil
}

func (f *Facebook) appSecretProof(token string) string {
	mac := hmac.New(sha256.New, []byte(f.AppSecret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
