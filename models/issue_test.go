package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	for _, valid := range []string{"pothole", "garbage", "streetlight", "water_leakage", "road_damage", "other"} {
		assert.True(t, ValidCategory(valid), valid)
	}
	for _, invalid := range []string{"", "Pothole", "sinkhole", "roads"} {
		assert.False(t, ValidCategory(invalid), invalid)
	}
}

func TestValidPriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high", "critical"} {
		assert.True(t, ValidPriority(valid), valid)
	}
	for _, invalid := range []string{"", "urgent", "HIGH"} {
		assert.False(t, ValidPriority(invalid), invalid)
	}
}

func TestValidStatus(t *testing.T) {
	for _, valid := range []string{"submitted", "acknowledged", "in_progress", "resolved", "rejected"} {
		assert.True(t, ValidStatus(valid), valid)
	}
	for _, invalid := range []string{"", "pending", "closed", "Resolved"} {
		assert.False(t, ValidStatus(invalid), invalid)
	}
}

func TestUserIsStaff(t *testing.T) {
	assert.False(t, (&User{Role: RoleCitizen}).IsStaff())
	assert.True(t, (&User{Role: RoleStaff}).IsStaff())
	assert.True(t, (&User{Role: RoleAdmin}).IsStaff())
}
