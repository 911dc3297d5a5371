package models

import "fmt"

// Platform is the closed set of publishing targets. Adapter selection
// switches over these values, so a new platform is a compile-time change.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTiktok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
)

func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformFacebook, PlatformInstagram, PlatformTiktok, PlatformTwitter:
		return Platform(s), nil
	}
	return "", fmt.Errorf("unknown platform %q", s)
}
