package util

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateTrackingNumber produces a shipment tracking number of the
// form MS-XXXXXXXXXXXX (12 hex chars from a random UUID).
func GenerateTrackingNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("MS-%s", strings.ToUpper(id[:12]))
}
