package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })

	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, c := range cases {
		SetLevel(c.in)
		assert.Equal(t, c.want, zapLevel.Level(), "SetLevel(%q)", c.in)
	}
}

type stubLogger struct {
	debugf int
	last   string
}

func (s *stubLogger) Debugf(format string, _ ...any) { s.debugf++; s.last = format }
func (s *stubLogger) Infof(string, ...any)           {}
func (s *stubLogger) Warnf(string, ...any)           {}
func (s *stubLogger) Errorf(string, ...any)          {}
func (s *stubLogger) Fatalf(string, ...any)          {}

func TestHelpersDelegateToDefault(t *testing.T) {
	stub := &stubLogger{}
	old := Default
	Default = stub
	t.Cleanup(func() { Default = old })

	Debugf("cropped %d", 1)

	assert.Equal(t, 1, stub.debugf)
	assert.Equal(t, "cropped %d", stub.last)
}
