package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tegami/tegami-backend/internal/common"
	"gorm.io/gorm"
)

// isDuplicateKey detects unique-index violations across mysql, postgres and sqlite
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// translate maps gorm errors onto the domain taxonomy
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", common.ErrNotFound, what)
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %s already exists", common.ErrConflict, what)
	default:
		return err
	}
}
