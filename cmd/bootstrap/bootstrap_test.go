package bootstrap

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tt := range tests {
		log := NewLogger(tt.level)
		assert.Equal(t, tt.want, log.GetLevel(), tt.level)
		assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	}
}
