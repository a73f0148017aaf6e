package postgres

import (
	"fmt"
	"strings"

	"github.com/hobbyforge/storefront/internal/domain"
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// asTransient wraps a driver error so callers can match the transient
// persistence failure sentinel without knowing the driver.
func asTransient(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
