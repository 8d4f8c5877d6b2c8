package logger

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLoggerFallsBackToDefault(t *testing.T) {
	entry := GetLogger(context.Background())
	assert.Equal(t, L, entry)
}

func TestWithLoggerRoundTrip(t *testing.T) {
	bound := L.WithField("session", "abc")
	ctx := WithLogger(context.Background(), bound)

	assert.Equal(t, bound, GetLogger(ctx))
	assert.Equal(t, "abc", GetLogger(ctx).Data["session"])
}

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	SetLevel("debug")
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	SetLevel("not-a-level")
	assert.Equal(t, logrus.InfoLevel, L.Logger.GetLevel())
}
