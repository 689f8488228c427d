package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// meetingIdRx accepts provider event ids: base64url-ish tokens plus the
// separators Graph implementations embed in them.
var meetingIdRx = regexp.MustCompile(`^[A-Za-z0-9_\-=.:]{1,256}$`)

// MeetingID validates the target meeting identifier.
func MeetingID(v string) error {
	if v == "" {
		return fmt.Errorf("meetingId is required")
	}
	if !meetingIdRx.MatchString(v) {
		return fmt.Errorf("meetingId contains invalid characters")
	}
	return nil
}

// Keywords validates the optional comma-separated keyword string.
func Keywords(v string) error {
	if v == "" {
		return nil
	}
	if len(v) > 500 {
		return fmt.Errorf("keywords exceeds 500 characters")
	}
	for _, r := range v {
		if r < 0x20 {
			return fmt.Errorf("keywords contains control characters")
		}
	}
	return nil
}

// NonEmpty reports an error when a required field is empty.
func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// SourceKind validates an item reference kind for brief generation.
// Only meetings and emails carry summarizable content.
func SourceKind(v string) error {
	switch v {
	case "meeting", "email":
		return nil
	}
	return fmt.Errorf("sourceKind must be meeting or email, got %q", v)
}
