//go:build unit

package user_test

import (
	"testing"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/domain/user"
	"entitlement-service/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("learner@example.com")
		expected := user.NewUser(actual.ID(), email, "Test Learner", locale.EN, true)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Equal(t, locale.EN, actual.Locale())
	})

	t.Run("通知先メールアドレス", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "プラス付きアドレスOK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("marie+cours@example.ca") },
			},
			{
				name:   "前後の空白は除去してOK",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("  learner@example.com ") },
			},
			{
				name:   "空NG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "ドメインなしNG",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("learner@") },
				errIs:  user.ErrInvalidEmail,
			},
		})

		u, err := builder.NewUserBuilder().WithEmail("  learner@example.com ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "learner@example.com", u.Email().Value())
	})

	t.Run("無効化されたユーザー", func(t *testing.T) {
		u, err := builder.NewUserBuilder().AsInactive().BuildDomain()
		require.NoError(t, err)
		assert.False(t, u.IsActive())
	})

	t.Run("ロケール", func(t *testing.T) {
		fr, err := builder.NewUserBuilder().WithLocale("fr").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, locale.FR, fr.Locale())

		unknown, err := builder.NewUserBuilder().WithLocale("de").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, locale.EN, unknown.Locale(), "unsupported locales fall back to English")
	})

	t.Run("表示名", func(t *testing.T) {
		u, err := builder.NewUserBuilder().WithEmail("marie.tremblay@example.com").WithName("").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "marie.tremblay", u.DisplayName())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
