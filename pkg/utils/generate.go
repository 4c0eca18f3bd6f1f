package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== CODES ====================

// GenerateTicketCode returns TKT- followed by 12 uppercase hex characters.
// Uniqueness is enforced by the tickets.ticket_code constraint; callers
// retry on collision.
func GenerateTicketCode() string {
	return "TKT-" + randomHex(6)
}

// GenerateOrderID - Format: BOOK-YYYYMMDD-HHMMSS-RANDOM (8 hex).
// bookings.order_id is unique; callers retry on collision.
func GenerateOrderID(now time.Time) string {
	return fmt.Sprintf("BOOK-%s-%s-%s", now.Format("20060102"), now.Format("150405"), randomHex(4))
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}
