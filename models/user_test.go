package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPremiumActive(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	assert.False(t, (&User{}).PremiumActive(now))
	assert.False(t, (&User{IsPremium: true, PremiumExpiresAt: &past}).PremiumActive(now))
	assert.True(t, (&User{IsPremium: true, PremiumExpiresAt: &future}).PremiumActive(now))
	assert.True(t, (&User{IsPremium: true}).PremiumActive(now))
}
