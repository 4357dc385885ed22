package utils_test

import (
	"strings"
	"testing"

	"github.com/dogukanveziroglu/DailyReporter/internal/utils"
	"github.com/stretchr/testify/assert"
)

// TestValidateDate 测试日期格式校验
func TestValidateDate(t *testing.T) {
	assert.NoError(t, utils.ValidateDate("2025-09-01"))
	assert.Error(t, utils.ValidateDate("2025-9-1"))
	assert.Error(t, utils.ValidateDate("09/01/2025"))
	assert.Error(t, utils.ValidateDate("2025-13-01"))
	assert.Error(t, utils.ValidateDate(""))
}

// TestValidateUsername 测试用户名校验
func TestValidateUsername(t *testing.T) {
	assert.NoError(t, utils.ValidateUsername("alice"))
	assert.NoError(t, utils.ValidateUsername("alice.b-01_x"))

	assert.Error(t, utils.ValidateUsername(""))
	assert.Error(t, utils.ValidateUsername("   "))
	assert.Error(t, utils.ValidateUsername("alice smith"))
	assert.Error(t, utils.ValidateUsername("alice@example"))
	assert.Error(t, utils.ValidateUsername(strings.Repeat("a", 65)))
}

// TestTrimAndValidate 测试字符串清理
func TestTrimAndValidate(t *testing.T) {
	got, err := utils.TrimAndValidate("  hello  ", 10)
	assert.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = utils.TrimAndValidate("   ", 10)
	assert.Error(t, err)

	_, err = utils.TrimAndValidate("too long here", 5)
	assert.Error(t, err)
}
