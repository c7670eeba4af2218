package client

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// fingerprintPrefix marks simulated scans.
const fingerprintPrefix = "fp_"

// CaptureFingerprint simulates a scanner read and returns an opaque hash of the form
// fp_<unix-millis>_<9 random chars>. There is no sensor behind it.
func CaptureFingerprint() string {
	return captureFingerprintAt(time.Now())
}

func captureFingerprintAt(at time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fingerprintPrefix + strconv.FormatInt(at.UnixMilli(), 10) + "_" + random[:9]
}
