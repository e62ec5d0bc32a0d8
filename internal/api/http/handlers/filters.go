package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/pkg/util"
)

// queryValues abstracts c.Query so filter parsing stays testable without a
// fiber context.
type queryValues interface {
	Query(key string, defaultValue ...string) string
}

// parseTransactionFilter builds date and amount bounds from query
// parameters. `date` selects a whole day and cannot be combined with
// `from`/`upTo`; all three use the YYYY-MM-DD format. `min`/`max` must be
// numeric.
func parseTransactionFilter(q queryValues) (domain.TransactionFilter, error) {
	var filter domain.TransactionFilter

	date := q.Query("date")
	from := q.Query("from")
	upTo := q.Query("upTo")

	if date != "" && (from != "" || upTo != "") {
		return filter, errors.New("date parameter cannot be present together with from or upTo parameter")
	}

	if date != "" {
		day, err := parseDay(date, "date")
		if err != nil {
			return filter, err
		}
		start := day
		end := day.Add(24*time.Hour - time.Millisecond)
		filter.From = &start
		filter.UpTo = &end
	} else {
		if from != "" {
			start, err := parseDay(from, "from")
			if err != nil {
				return filter, err
			}
			filter.From = &start
		}
		if upTo != "" {
			day, err := parseDay(upTo, "upTo")
			if err != nil {
				return filter, err
			}
			end := day.Add(24*time.Hour - time.Millisecond)
			filter.UpTo = &end
		}
	}

	if raw := q.Query("min"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.New("min is not a numerical value")
		}
		filter.MinAmt = &min
	}
	if raw := q.Query("max"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, errors.New("max is not a numerical value")
		}
		filter.MaxAmt = &max
	}

	return filter, nil
}

func parseDay(value, name string) (time.Time, error) {
	if !util.ValidateDate(value) {
		return time.Time{}, errors.New(name + " parameter is not a string in the format YYYY-MM-DD")
	}
	day, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, errors.New(name + " parameter is not a valid date")
	}
	return day, nil
}
