package utils

import (
	"strings"

	"visittrack/api/models"
)

const ipMask = "xxx"

// DeviceType buckets a user agent into mobile, tablet or desktop.
// "mobile" is checked first, so an agent naming both is mobile.
func DeviceType(userAgent string) models.DeviceType {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile"):
		return models.DeviceMobile
	case strings.Contains(ua, "tablet"):
		return models.DeviceTablet
	default:
		return models.DeviceDesktop
	}
}

// AnonymizeIP masks the host part of an address. Dotted quads lose their last
// octet; any other format loses its last four characters.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	if parts := strings.Split(ip, "."); len(parts) == 4 {
		return parts[0] + "." + parts[1] + "." + parts[2] + "." + ipMask
	}

	keep := len(ip) - 4
	if keep < 0 {
		keep = 0
	}
	return ip[:keep] + "xxxx"
}
