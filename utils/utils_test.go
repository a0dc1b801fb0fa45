package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visittrack/api/models"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "dotted quad", raw: "203.0.113.42", want: "203.0.113.xxx"},
		{name: "loopback v4", raw: "127.0.0.1", want: "127.0.0.xxx"},
		{name: "ipv4 mapped ipv6", raw: "::ffff:10.1.2.3", want: "::ffff:10.1.2.xxx"},
		{name: "short ipv6", raw: "::1", want: "xxxx"},
		{name: "ipv6", raw: "2001:db8::1", want: "2001:dbxxxx"},
		{name: "empty", raw: "", want: "unknown"},
		{name: "unknown", raw: "unknown", want: "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AnonymizeIP(tc.raw))
		})
	}
}

func TestDeviceType(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want models.DeviceType
	}{
		{name: "iphone", ua: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", want: models.DeviceMobile},
		{name: "lowercase mobile", ua: "some mobile agent", want: models.DeviceMobile},
		{name: "tablet", ua: "Mozilla/5.0 (Linux; Android 13; Tablet) Safari", want: models.DeviceTablet},
		{name: "mobile wins over tablet", ua: "Tablet Mobile", want: models.DeviceMobile},
		{name: "desktop", ua: "Mozilla/5.0 (X11; Linux x86_64) Firefox/128.0", want: models.DeviceDesktop},
		{name: "empty", ua: "", want: models.DeviceDesktop},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeviceType(tc.ua))
		})
	}
}

func TestGenerateSessionID(t *testing.T) {
	a := GenerateSessionID()
	b := GenerateSessionID()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 50, ParseLimit("", 50))
	assert.Equal(t, 50, ParseLimit("abc", 50))
	assert.Equal(t, 50, ParseLimit("0", 50))
	assert.Equal(t, 50, ParseLimit("-3", 50))
	assert.Equal(t, 10, ParseLimit("10", 50))
}
