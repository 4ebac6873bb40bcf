package domain

import "net/http"

// Result keys shared by every operation.
const (
	ResultOK                    = "ok"
	KeyUserNotFound             = "user-not-found"
	KeyUserAlreadyExists        = "user-already-exists"
	KeyRoleNotFound             = "role-not-found"
	KeyPasswordNotMatch         = "password-not-match"
	KeyEmailNotMatch            = "email-not-match"
	KeyUsernameChangeAttempt    = "warning-username-change-attempt"
	KeyLoginAttemptsExceeded    = "login-attempts-exceeded"
	MessageIncorrectCredentials = "Username or password incorrect!"
	MessageTooManyLoginAttempts = "Too many failed login attempts, try again later."
)

// Result is the uniform outcome of every service operation. Business
// failures are Results; only unexpected faults travel as errors.
type Result struct {
	StatusCode int
	Message    string
	Entity     *User
	Entities   []*User
	Token      string
	ResultKeys []string
}

// OK reports whether the outcome is a 2xx.
func (r *Result) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// HasKey reports whether key is among the result keys.
func (r *Result) HasKey(key string) bool {
	for _, k := range r.ResultKeys {
		if k == key {
			return true
		}
	}
	return false
}

func BadRequest(message string, keys ...string) *Result {
	return &Result{StatusCode: http.StatusBadRequest, Message: message, ResultKeys: keys}
}

func NotFound(message string) *Result {
	return &Result{StatusCode: http.StatusNotFound, Message: message, ResultKeys: []string{KeyUserNotFound}}
}

func Conflict(message string, keys ...string) *Result {
	return &Result{StatusCode: http.StatusConflict, Message: message, ResultKeys: keys}
}
