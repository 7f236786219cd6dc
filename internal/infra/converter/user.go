package converter

import (
	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/infra/sqlc"
)

// UserFromRow falls back to English for an unknown stored locale.
func UserFromRow(row sqlc.Users) (*user.User, error) {
	email, err := user.NewEmail(row.Email)
	if err != nil {
		return nil, err
	}
	return user.NewUser(row.ID, email, row.Name, locale.Parse(row.Locale, locale.EN), row.IsActive), nil
}
