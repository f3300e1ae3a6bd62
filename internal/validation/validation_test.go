package validation

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRegistration(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     string
	}{
		{"valid", "alice", "Abcdef1!", ""},
		{"empty username", "", "Abcdef1!", MsgFillAllFields},
		{"empty password", "alice", "", MsgFillAllFields},
		{"both empty", "", "", MsgFillAllFields},
		{"too short", "alice", "Ab1!", MsgPasswordTooShort},
		{"seven chars", "alice", "Abcde1!", MsgPasswordTooShort},
		{"no uppercase", "alice", "abcdef1!", MsgMissingUpper},
		{"no lowercase", "alice", "ABCDEF1!", MsgMissingLower},
		{"no digit", "alice", "Abcdefg!", MsgMissingDigit},
		{"no special", "alice", "Abcdefg1", MsgMissingSpecial},
		{"short wins over classes", "alice", "abc", MsgPasswordTooShort},
		{"uppercase wins over digit", "alice", "abcdefgh", MsgMissingUpper},
		{"non-ascii counts as special", "alice", "Abcdefg1é", ""},
		{"space counts as special", "alice", "Abcd efg1", ""},
		{"length in characters", "alice", "Aé1éééé", MsgPasswordTooShort},
		{"whitespace username is present", " ", "Abcdef1!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRegistration(tt.username, tt.password)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrInvalidInput))

			reason, ok := Reason(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, reason)
		})
	}
}

func TestCheckLogin_OnlyPresence(t *testing.T) {
	assert.NoError(t, CheckLogin("alice", "weak"))

	err := CheckLogin("alice", "")
	require.Error(t, err)
	reason, ok := Reason(err)
	require.True(t, ok)
	assert.Equal(t, MsgFillAllFields, reason)
}

func TestReason_NotAPolicyError(t *testing.T) {
	_, ok := Reason(errors.New("boom"))
	assert.False(t, ok)

	_, ok = Reason(nil)
	assert.False(t, ok)
}
