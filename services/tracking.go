package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const trackingPrefix = "PRCL"

// NewTrackingID returns PRCL-YYYYMMDD-XXXXXX: the UTC date of now and three
// random bytes in upper-case hex. It is a display token; payment uniqueness
// rests on the transaction id.
func NewTrackingID(now time.Time) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("tracking id: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s", trackingPrefix, now.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(b))), nil
}
