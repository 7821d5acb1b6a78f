package grpczap

import (
	"context"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"testing"
)

func TestInterceptorLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := InterceptorLogger(zap.New(core))

	logger.Log(context.Background(), logging.LevelInfo, "finished call",
		"grpc.service", "grpc.health.v1.Health", "grpc.code", 0, "ok", true, "grpc.time_ms", 1.5)
	logger.Log(context.Background(), logging.LevelWarn, "slow call")

	entries := logs.AllUntimed()
	assert.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "finished call", entries[0].Message)
	assert.Equal(t, map[string]any{
		"grpc.service": "grpc.health.v1.Health",
		"grpc.code":    int64(0),
		"ok":           true,
		"grpc.time_ms": 1.5,
	}, entries[0].ContextMap())

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
