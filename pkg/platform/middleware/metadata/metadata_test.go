package metadata

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sotadiploma/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "fd00::1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		trusted []netip.Prefix
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain from trusted proxy", trusted, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:4000", "203.0.113.7"},
		{"spoofed leftmost hop is skipped", trusted, map[string]string{"X-Forwarded-For": "198.51.100.9, 203.0.113.7"}, "10.0.0.2:4000", "203.0.113.7"},
		{"garbled hop stops the walk", trusted, map[string]string{"X-Forwarded-For": "203.0.113.7, junk, 10.0.0.3"}, "10.0.0.2:4000", "10.0.0.2"},
		{"real ip from trusted proxy", trusted, map[string]string{"X-Real-IP": "198.51.100.1"}, "10.0.0.2:4000", "198.51.100.1"},
		{"trusted ipv6 proxy", trusted, map[string]string{"X-Forwarded-For": "2001:db8::7"}, "[fd00::1]:443", "2001:db8::7"},
		{"forwarded from untrusted peer", trusted, map[string]string{"X-Forwarded-For": "203.0.113.8"}, "192.0.2.10:51234", "192.0.2.10"},
		{"forwarded without trusted proxies", nil, map[string]string{"X-Forwarded-For": "203.0.113.8", "X-Real-IP": "203.0.113.9"}, "10.0.0.2:4000", "10.0.0.2"},
		{"remote ipv4", nil, nil, "192.0.2.10:51234", "192.0.2.10"},
		{"remote ipv6", nil, nil, "[::1]:8080", "::1"},
		{"nothing", nil, nil, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(r, tt.trusted))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{" 10.1.2.3/8 ", "", "192.0.2.1", "::ffff:198.51.100.1"})
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.1/32"),
		netip.MustParsePrefix("198.51.100.1/32"),
	}, prefixes)

	for _, bad := range []string{"10.0.0.0/33", "proxy.local"} {
		_, err := ParseTrustedProxies([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestClientMetadataAndRequestID(t *testing.T) {
	var gotIP, gotUA, gotID string
	h := RequestID(ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
		gotID = requestcontext.RequestID(r.Context())
	})))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:51234"
	r.Header.Set("User-Agent", "diploma-test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "192.0.2.10", gotIP)
	assert.Equal(t, "diploma-test", gotUA)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:51234"
	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "192.0.2.10", gotIP)
	assert.NotEmpty(t, gotID)
	assert.Equal(t, gotID, w.Header().Get(RequestIDHeader))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "abc-123", gotID)
}
