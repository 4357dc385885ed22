package auth_test

import (
	"testing"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTokenManager_IssueAndVerify 测试令牌签发与验证
func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm, err := auth.NewTokenManager("test-secret-key", time.Hour)
	require.NoError(t, err)

	token, err := tm.Issue(42, "alice", auth.RoleLead)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), principal.UserID)
	assert.Equal(t, "alice", principal.Username)
	assert.Equal(t, auth.RoleLead, principal.Role)
}

// TestTokenManager_RejectsTamperedToken 测试篡改令牌被拒绝
func TestTokenManager_RejectsTamperedToken(t *testing.T) {
	tm, err := auth.NewTokenManager("test-secret-key", time.Hour)
	require.NoError(t, err)

	token, err := tm.Issue(1, "bob", auth.RoleUser)
	require.NoError(t, err)

	_, err = tm.Verify(token + "x")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// TestTokenManager_RejectsWrongSecret 测试密钥不匹配被拒绝
func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer, err := auth.NewTokenManager("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := auth.NewTokenManager("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(1, "bob", auth.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

// TestTokenManager_RequiresSecret 测试缺失密钥时拒绝创建
func TestTokenManager_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

// TestHashPassword_Roundtrip 测试密码哈希与校验
func TestHashPassword_Roundtrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.True(t, auth.VerifyPassword("s3cret", hash))
	assert.False(t, auth.VerifyPassword("wrong", hash))
}
