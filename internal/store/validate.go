package store

import "unicode/utf8"

const (
	UsernameMinLen = 2
	UsernameMaxLen = 50
	TextMaxLen     = 500
)

// ValidateUsername checks the 2-50 character rule. The returned messages are
// part of the wire contract and surface to clients verbatim.
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < UsernameMinLen {
		return &ValidationError{Field: "username", Message: "Username must be at least 2 characters long"}
	}
	if length > UsernameMaxLen {
		return &ValidationError{Field: "username", Message: "Username must be no longer than 50 characters"}
	}
	return nil
}

// ValidateText checks the 1-500 character rule.
func ValidateText(text string) error {
	length := utf8.RuneCountInString(text)
	if length < 1 {
		return &ValidationError{Field: "text", Message: "Message text cannot be empty"}
	}
	if length > TextMaxLen {
		return &ValidationError{Field: "text", Message: "Message text must be no longer than 500 characters"}
	}
	return nil
}

// validateMessage applies the documented fail-fast order: username, then text.
func validateMessage(username, text string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidateText(text)
}
