package identity

import "strings"

type ErrorCode string

const (
	CodeDuplicateUserName               ErrorCode = "DuplicateUserName"
	CodeDuplicateEmail                  ErrorCode = "DuplicateEmail"
	CodeInvalidEmail                    ErrorCode = "InvalidEmail"
	CodePasswordRequired                ErrorCode = "PasswordRequired"
	CodePasswordTooShort                ErrorCode = "PasswordTooShort"
	CodePasswordTooLong                 ErrorCode = "PasswordTooLong"
	CodePasswordRequiresNonAlphanumeric ErrorCode = "PasswordRequiresNonAlphanumeric"
	CodePasswordRequiresDigit           ErrorCode = "PasswordRequiresDigit"
	CodePasswordRequiresLower           ErrorCode = "PasswordRequiresLower"
	CodePasswordRequiresUpper           ErrorCode = "PasswordRequiresUpper"
	CodePasswordMismatch                ErrorCode = "PasswordMismatch"
)

var codeMessages = map[ErrorCode]string{
	CodeDuplicateUserName:               "This email is already taken.",
	CodeDuplicateEmail:                  "This email is already taken.",
	CodeInvalidEmail:                    "Invalid email format.",
	CodePasswordRequired:                "Password is required.",
	CodePasswordTooShort:                "Password is too short.",
	CodePasswordTooLong:                 "Password is too long.",
	CodePasswordRequiresNonAlphanumeric: "Password must contain a special character.",
	CodePasswordRequiresDigit:           "Password must contain a digit.",
	CodePasswordRequiresLower:           "Password must contain a lowercase letter.",
	CodePasswordRequiresUpper:           "Password must contain an uppercase letter.",
	CodePasswordMismatch:                "Passwords do not match.",
}

func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return string(c)
}

// RegistrationError lists every reason a registration was refused.
type RegistrationError struct {
	Codes []ErrorCode
}

func (e *RegistrationError) Error() string {
	codes := make([]string, 0, len(e.Codes))
	for _, c := range e.Codes {
		codes = append(codes, string(c))
	}
	return "registration failed: " + strings.Join(codes, ", ")
}

// Messages maps the codes to user facing messages, identical messages collapsed into one.
func (e *RegistrationError) Messages() []string {
	seen := make(map[string]bool, len(e.Codes))
	messages := make([]string, 0, len(e.Codes))
	for _, c := range e.Codes {
		msg := c.Message()
		if seen[msg] {
			continue
		}
		seen[msg] = true
		messages = append(messages, msg)
	}
	return messages
}
