package repositories

import (
	"errors"

	"gorm.io/gorm"
)

const defaultPageSize = 6

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isMissingReference(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// offset normalises page/limit into an OFFSET/LIMIT pair. Pages start at 1.
func offset(page, limit int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	return (page - 1) * limit, limit
}
