package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// nextSequence returns the next sequence number for document numbers shaped
// PREFIX/NNNN. It reads the highest existing number under the prefix and
// parses its trailing integer; zero padding keeps the lexicographic order
// aligned with the numeric one.
func nextSequence(db *gorm.DB, model interface{}, column, prefix string) (int, error) {
	var maxNumber string
	if err := db.Model(model).
		Select(column).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &maxNumber).Error; err != nil {
		return 0, err
	}

	seq := 1
	if maxNumber != "" {
		if idx := strings.LastIndex(maxNumber, "/"); idx >= 0 {
			var n int
			if _, err := fmt.Sscanf(maxNumber[idx+1:], "%d", &n); err == nil {
				seq = n + 1
			}
		}
	}
	return seq, nil
}
