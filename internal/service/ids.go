package service

import (
	"fmt"
	"time"
)

// Document number kinds
const (
	docKindOrder    = "ORD"
	docKindReceipt  = "RCV"
	docKindShipment = "SHP"
)

// docPrefix builds the day-scoped prefix a sequence counter is keyed by,
// e.g. ORD-20240115. A fresh prefix each day restarts numbering at 1.
func docPrefix(kind string, t time.Time) string {
	return fmt.Sprintf("%s-%s", kind, t.Format("20060102"))
}

// docNumber renders the final business key, e.g. ORD-20240115-007.
func docNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
