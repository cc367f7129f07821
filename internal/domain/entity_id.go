package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Entity IDs are the business key of an organization: a fixed prefix
// followed by five digits, e.g. MSD10001.
const (
	EntityIDPrefix    = "MSD"
	EntityIDDigits    = 5
	EntityIDLength    = len(EntityIDPrefix) + EntityIDDigits
	FirstEntityNumber = 10001
	MaxEntityNumber   = 99999
)

func FormatEntityID(n int) string {
	return fmt.Sprintf("%s%0*d", EntityIDPrefix, EntityIDDigits, n)
}

func IsValidEntityID(entityID string) bool {
	_, err := EntityIDNumber(entityID)
	return err == nil
}

// EntityIDNumber returns the numeric part of a well-formed entity ID.
func EntityIDNumber(entityID string) (int, error) {
	if len(entityID) != EntityIDLength || !strings.HasPrefix(entityID, EntityIDPrefix) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntityID, entityID)
	}
	digits := entityID[len(EntityIDPrefix):]
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidEntityID, entityID)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEntityID, entityID)
	}
	return n, nil
}
