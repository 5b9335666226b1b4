package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	r := &Request{Request: httptest.NewRequest(http.MethodGet, "/", nil)}

	r.RemoteAddr = "203.0.113.9:44312"
	assert.Equal(t, "203.0.113.9", r.ClientIP())

	// the IP middleware may have already stripped the port
	r.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", r.ClientIP())
}
