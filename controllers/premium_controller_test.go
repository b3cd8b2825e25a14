package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtendExpiryFromNow(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	got := extendExpiry(nil, now, 30)
	assert.Equal(t, now.AddDate(0, 0, 30), got)
}

func TestExtendExpiryStacksOnRemainingTime(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	current := now.AddDate(0, 0, 10)

	got := extendExpiry(&current, now, 365)
	assert.Equal(t, current.AddDate(0, 0, 365), got)
}

func TestExtendExpiryIgnoresLapsedSubscription(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	expired := now.AddDate(0, 0, -5)

	got := extendExpiry(&expired, now, 30)
	assert.Equal(t, now.AddDate(0, 0, 30), got)
}

func TestPlanDurations(t *testing.T) {
	assert.Equal(t, 30, planDurations["monthly"])
	assert.Equal(t, 365, planDurations["yearly"])
	assert.Len(t, planDurations, 2)
}
