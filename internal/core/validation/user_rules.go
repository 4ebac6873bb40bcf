package validation

import "github.com/99minutos/accounts-api/internal/core/domain"

const (
	usernameMin = 6
	usernameMax = 20
	passwordMin = 8
	passwordMax = 30
	nameMax     = 50
	emailMax    = 255

	// bcrypt ignores input past 72 bytes and x/crypto refuses it outright.
	passwordMaxBytes = 72
)

var createRules = []Rule[domain.UserDraft]{
	notEmpty("username", draftUsername),
	minLength("username", usernameMin, draftUsername),
	maxLength("username", usernameMax, draftUsername),

	notEmpty("password", draftPassword),
	minLength("password", passwordMin, draftPassword),
	maxLength("password", passwordMax, draftPassword),
	maxBytes("password", passwordMaxBytes, draftPassword),
	strongPassword("password", draftPassword),

	notEmpty("confirmPassword", draftConfirmPassword),
	minLength("confirmPassword", passwordMin, draftConfirmPassword),
	maxLength("confirmPassword", passwordMax, draftConfirmPassword),
	maxBytes("confirmPassword", passwordMaxBytes, draftConfirmPassword),
	strongPassword("confirmPassword", draftConfirmPassword),

	notEmpty("firstName", draftFirstName),
	maxLength("firstName", nameMax, draftFirstName),

	notEmpty("lastName", draftLastName),
	maxLength("lastName", nameMax, draftLastName),

	maxLength("email", emailMax, draftEmail),
	email("email", draftEmail),
	maxLength("confirmEmail", emailMax, draftConfirmEmail),
	email("confirmEmail", draftConfirmEmail),

	{
		Field:      "roleId",
		Constraint: "is-not-empty",
		Check:      func(d domain.UserDraft) bool { return d.RoleID > 0 },
	},

	sameAs("password", nil, draftPassword, draftConfirmPassword),
	sameAs("email", present(draftEmail), draftEmail, draftConfirmEmail),
}

var updateRules = []Rule[domain.UserPatch]{
	minLength("username", usernameMin, patchUsername),
	maxLength("username", usernameMax, patchUsername),

	minLength("password", passwordMin, patchPassword),
	maxLength("password", passwordMax, patchPassword),
	maxBytes("password", passwordMaxBytes, patchPassword),
	strongPassword("password", patchPassword),

	minLength("confirmPassword", passwordMin, patchConfirmPassword),
	maxLength("confirmPassword", passwordMax, patchConfirmPassword),
	maxBytes("confirmPassword", passwordMaxBytes, patchConfirmPassword),
	strongPassword("confirmPassword", patchConfirmPassword),

	maxLength("firstName", nameMax, patchFirstName),
	maxLength("lastName", nameMax, patchLastName),

	maxLength("email", emailMax, patchEmail),
	email("email", patchEmail),
	maxLength("confirmEmail", emailMax, patchConfirmEmail),
	email("confirmEmail", patchConfirmEmail),

	sameAs("password", func(p domain.UserPatch) bool {
		return p.Password != "" || p.ConfirmPassword != ""
	}, patchPassword, patchConfirmPassword),
	sameAs("email", present(patchEmail), patchEmail, patchConfirmEmail),
}

// Password shape is not checked on login: a malformed password is simply
// an incorrect one.
var loginRules = []Rule[domain.Credentials]{
	notEmpty("username", credUsername),
	minLength("username", usernameMin, credUsername),
	maxLength("username", usernameMax, credUsername),
	notEmpty("password", credPassword),
}

// ValidateCreate checks a create payload.
func ValidateCreate(d domain.UserDraft) Verdict {
	return Verdict{Violations: Validate(d, createRules)}
}

// ValidateUpdate checks an update payload. A supplied username is not a
// violation: it is reported as a warning and never written.
func ValidateUpdate(p domain.UserPatch) Verdict {
	v := Verdict{Violations: Validate(p, updateRules)}
	if p.Username != "" {
		v.Warnings = append(v.Warnings, domain.KeyUsernameChangeAttempt)
	}
	return v
}

// ValidateLogin checks a login payload.
func ValidateLogin(c domain.Credentials) Verdict {
	return Verdict{Violations: Validate(c, loginRules)}
}

func draftUsername(d domain.UserDraft) string        { return d.Username }
func draftPassword(d domain.UserDraft) string        { return d.Password }
func draftConfirmPassword(d domain.UserDraft) string { return d.ConfirmPassword }
func draftFirstName(d domain.UserDraft) string       { return d.FirstName }
func draftLastName(d domain.UserDraft) string        { return d.LastName }
func draftEmail(d domain.UserDraft) string           { return d.Email }
func draftConfirmEmail(d domain.UserDraft) string    { return d.ConfirmEmail }

func patchUsername(p domain.UserPatch) string        { return p.Username }
func patchPassword(p domain.UserPatch) string        { return p.Password }
func patchConfirmPassword(p domain.UserPatch) string { return p.ConfirmPassword }
func patchFirstName(p domain.UserPatch) string       { return p.FirstName }
func patchLastName(p domain.UserPatch) string        { return p.LastName }
func patchEmail(p domain.UserPatch) string           { return p.Email }
func patchConfirmEmail(p domain.UserPatch) string    { return p.ConfirmEmail }

func credUsername(c domain.Credentials) string { return c.Username }
func credPassword(c domain.Credentials) string { return c.Password }
