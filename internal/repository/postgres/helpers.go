package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// first runs tx.First and maps a missing row to (nil, nil).
func first[T any](tx *gorm.DB, conds ...interface{}) (*T, error) {
	var out T
	err := tx.First(&out, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func exists(tx *gorm.DB) (bool, error) {
	var found bool
	err := tx.Select("count(*) > 0").Find(&found).Error
	return found, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lower-cased LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
