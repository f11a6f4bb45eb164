package utils

import (
	"time"

	"github.com/pkg/errors"
)

// ParseDate converte uma data AAAA-MM-DD; texto vazio retorna nil
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid date %q", dateStr)
	}

	return &date, nil
}
