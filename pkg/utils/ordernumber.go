package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber builds "ORD" + yymmddhhmmss + a zero-padded random
// value in [0,1000). The random suffix makes same-second collisions unlikely;
// actual uniqueness is enforced by the orders table constraint, so callers
// must be prepared to retry on conflict.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD%s%03d", now.Format("060102150405"), rand.Intn(1000))
}
