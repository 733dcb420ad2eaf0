package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"not found", NotFound("user"), KindNotFound},
		{"wrapped conflict", fmt.Errorf("create: %w", Conflict("email taken")), KindConflict},
		{"key", KeyUnavailable("load", errors.New("no file")), KindKeyUnavailable},
		{"foreign", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIs_MatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NotFound("refresh token"))

	assert.True(t, errors.Is(err, ErrorNotFound))
	assert.False(t, errors.Is(err, ErrorUnauthorized))
	assert.True(t, IsKind(err, KindNotFound))
}

func TestError_MessageIncludesCause(t *testing.T) {
	err := KeyUnavailable("private key for access", errors.New("open: no such file"))
	assert.Equal(t, "private key for access: open: no such file", err.Error())

	assert.Equal(t, "token expired", TokenExpired(nil).Error())
	assert.True(t, errors.Is(TokenInvalid(errors.New("x")), ErrInvalidToken))
}
