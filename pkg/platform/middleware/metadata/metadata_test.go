package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"finai/pkg/requestcontext"
	"finai/pkg/testutil"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remote: "10.0.0.2:1234", want: "203.0.113.7"},
		{name: "forwarded single", headers: map[string]string{"X-Forwarded-For": " 203.0.113.8 "}, want: "203.0.113.8"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": "198.51.100.4"}, remote: "10.0.0.2:1234", want: "198.51.100.4"},
		{name: "remote ipv4", remote: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "remote ipv6", remote: "[::1]:5555", want: "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestDeviceLabel(t *testing.T) {
	assert.Equal(t, "unknown", DeviceLabel(""))
	assert.Equal(t, "bot", DeviceLabel("Googlebot/2.1 (+http://www.google.com/bot.html)"))

	chrome := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	assert.Equal(t, "Chrome on Windows", DeviceLabel(chrome))

	iphone := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	assert.Contains(t, DeviceLabel(iphone), "(mobile)")
}

func TestClientMetadata(t *testing.T) {
	var ip, ua, device string
	h := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip, ua, device = GetClientIP(ctx), GetUserAgent(ctx), requestcontext.Device(ctx)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:80"
	req.Header.Set("User-Agent", "curl/8.4.0")
	testutil.DoRequest(h, req)

	assert.Equal(t, "192.0.2.9", ip)
	assert.Equal(t, "curl/8.4.0", ua)
	assert.NotEmpty(t, device)
}
