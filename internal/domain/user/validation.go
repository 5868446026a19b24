package user

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/funtube/funtube-server/internal/utils/platformerrors"
)

const (
	minUsernameLength = 2
	maxUsernameLength = 50
	minPasswordLength = 4
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateRegistration(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return validationError(ctx, "username, email and password are required")
	}
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return validationError(ctx, fmt.Sprintf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
	}
	if !emailPattern.MatchString(email) {
		return validationError(ctx, "email is not valid")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return validationError(ctx, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func validationError(ctx context.Context, message string) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, message, nil)
}
