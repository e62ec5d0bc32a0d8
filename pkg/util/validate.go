package util

import "regexp"

var emailPattern = regexp.MustCompile(`^[^\s@]+@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}))$`)

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate checks for the YYYY-MM-DD shape used by query filters.
func ValidateDate(date string) bool {
	return datePattern.MatchString(date)
}
