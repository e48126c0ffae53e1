package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "daily", schedule: "30 5 * * *", wantErr: false},
		{name: "every minute", schedule: "* * * * *", wantErr: false},
		{name: "every 6 hours", schedule: "0 */6 * * *", wantErr: false},
		{name: "weekdays", schedule: "30 9 * * 1-5", wantErr: false},
		{name: "empty", schedule: "", wantErr: true},
		{name: "too few fields", schedule: "30 5 *", wantErr: true},
		{name: "garbage", schedule: "not a cron", wantErr: true},
		{name: "minute out of range", schedule: "60 5 * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "UTC", timezone: "UTC", wantErr: false},
		{name: "IANA name", timezone: "Europe/Madrid", wantErr: false},
		{name: "empty", timezone: "", wantErr: true},
		{name: "offset instead of name", timezone: "+09:00", wantErr: true},
		{name: "typo", timezone: "Europe/Madird", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimezone(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(30*time.Minute, 1*time.Minute, 1*time.Hour))
	assert.NoError(t, ValidateDuration(1*time.Minute, 1*time.Minute, 1*time.Hour))
	assert.NoError(t, ValidateDuration(1*time.Hour, 1*time.Minute, 1*time.Hour))
	assert.Error(t, ValidateDuration(30*time.Second, 1*time.Minute, 1*time.Hour))
	assert.Error(t, ValidateDuration(2*time.Hour, 1*time.Minute, 1*time.Hour))
	assert.Error(t, ValidateDuration(30*time.Minute, 1*time.Hour, 1*time.Minute))
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(10, 1, 50))
	assert.NoError(t, ValidateIntRange(1, 1, 50))
	assert.NoError(t, ValidateIntRange(50, 1, 50))
	assert.Error(t, ValidateIntRange(0, 1, 50))
	assert.Error(t, ValidateIntRange(51, 1, 50))
	assert.Error(t, ValidateIntRange(10, 50, 1))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(1*time.Second))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-1*time.Second))
}
