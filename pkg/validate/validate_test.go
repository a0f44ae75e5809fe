package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Amount   int64  `json:"amount" validate:"gt=0"`
	Kind     string `json:"type" validate:"omitempty,oneof=FIXED FLEXIBLE"`
}

func TestStruct(t *testing.T) {
	valid := signup{Email: "ada@example.com", Password: "secret", Amount: 1}

	tests := []struct {
		name        string
		modify      func(s *signup)
		expectedErr string
	}{
		{name: "Valid", modify: func(s *signup) {}},
		{name: "Missing email", modify: func(s *signup) { s.Email = "" }, expectedErr: "email is required"},
		{name: "Malformed email", modify: func(s *signup) { s.Email = "ada" }, expectedErr: "email must be a valid email address"},
		{name: "Short password", modify: func(s *signup) { s.Password = "abc" }, expectedErr: "password must be at least 6 characters"},
		{name: "Zero amount", modify: func(s *signup) { s.Amount = 0 }, expectedErr: "amount must be greater than 0"},
		{name: "Unknown type", modify: func(s *signup) { s.Kind = "LOCKED" }, expectedErr: "type must be one of [FIXED FLEXIBLE]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.modify(&s)
			err := Struct(s)
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expectedErr)
		})
	}
}
