package identity

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequestForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/stories/1/likes", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.RemoteAddr = "10.0.0.1:52100"

	assert.Equal(t, "203.0.113.7", FromRequest(req))
}

func TestFromRequestPeerAddress(t *testing.T) {
	req := httptest.NewRequest("GET", "/stories/1/likes", nil)
	req.RemoteAddr = "198.51.100.23:40022"

	assert.Equal(t, "198.51.100.23", FromRequest(req))
}

func TestFromRequestFallback(t *testing.T) {
	req := httptest.NewRequest("GET", "/stories/1/likes", nil)
	req.RemoteAddr = ""

	assert.Equal(t, "127.0.0.1", FromRequest(req))
}

func TestFromRequestStableWithinSession(t *testing.T) {
	req := httptest.NewRequest("GET", "/stories/1/likes", nil)
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 ")

	first := FromRequest(req)
	second := FromRequest(req)
	assert.Equal(t, first, second)
	assert.Equal(t, "203.0.113.7", first)
}
