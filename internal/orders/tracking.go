package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

const trackingPrefix = "LX"

// NewTrackingNumber mints a customer-facing tracking number:
//
//	LX-YYYYMMDD-XXXXXXXX
//
// The random suffix keeps same-day submissions distinct; uniqueness is
// enforced by the index on order_groups.tracking_number.
func NewTrackingNumber(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate tracking suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s-%08X", trackingPrefix, now.UTC().Format("20060102"), buf), nil
}
