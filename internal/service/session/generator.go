package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
)

// generateSessionNumber creates a unique human-readable session number,
// e.g. PRK_20250831_004.
func (s *SessionService) generateSessionNumber(ctx context.Context, now time.Time) (string, error) {
	datePart := now.Format("20060102")

	count, err := s.repo.CountByDate(ctx, now)
	if err != nil {
		return "", wrap.Error(ctx, err)
	}

	nextSequence := count + 1
	return fmt.Sprintf("PRK_%s_%03d", datePart, nextSequence), nil
}

// generateTransactionRef creates a payment transaction reference,
// e.g. TXN_20250831_9F3A1C.
func generateTransactionRef(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("TXN_%s_%s", now.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
