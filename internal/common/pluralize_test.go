package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralizePraises(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "хлопов"},
		{1, "хлоп"},
		{2, "хлопа"},
		{3, "хлопа"},
		{4, "хлопа"},
		{5, "хлопов"},
		{11, "хлопов"},
		{12, "хлопов"},
		{14, "хлопов"},
		{21, "хлоп"},
		{22, "хлопа"},
		{25, "хлопов"},
		{100, "хлопов"},
		{101, "хлоп"},
		{111, "хлопов"},
		{-3, "хлопа"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralizePraises(tt.n), "n=%d", tt.n)
	}
}

func TestFormatPraises(t *testing.T) {
	assert.Equal(t, "3 хлопа", FormatPraises(3))
	assert.Equal(t, "1 хлоп", FormatPraises(1))
	assert.Equal(t, "0 хлопов", FormatPraises(0))
}

func TestPluralizeDays(t *testing.T) {
	assert.Equal(t, "день", PluralizeDays(1))
	assert.Equal(t, "дня", PluralizeDays(2))
	assert.Equal(t, "дней", PluralizeDays(7))
	assert.Equal(t, "дней", PluralizeDays(11))
	assert.Equal(t, "день", PluralizeDays(21))
	assert.Equal(t, "дней", PluralizeDays(14))
}

func TestNewQuotaErrorClampsRemaining(t *testing.T) {
	err := NewQuotaError(-2, 3)
	assert.Equal(t, 0, err.Remaining)
	assert.Equal(t, 3, err.Limit)
	assert.Contains(t, err.Error(), "осталось 0 из 3")
}
