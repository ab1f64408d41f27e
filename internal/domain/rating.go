package domain

import "time"

type RatingType int

const (
	RatingAgain    RatingType = 1
	RatingWeek     RatingType = 2
	RatingMonth    RatingType = 3
	RatingTwoMonth RatingType = 4
)

type RateInput struct {
	Rating RatingType `json:"rating"`
}

// NextDue schedules the next practice of a list item rated at now.
func (r RatingType) NextDue(now time.Time) (time.Time, error) {
	switch r {
	case RatingAgain:
		return now, nil
	case RatingWeek:
		return now.AddDate(0, 0, 7), nil
	case RatingMonth:
		return now.AddDate(0, 1, 0), nil
	case RatingTwoMonth:
		return now.AddDate(0, 2, 0), nil
	}
	return time.Time{}, Invalid("rating", "must be between %d and %d", RatingAgain, RatingTwoMonth)
}
