package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, isVerbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(isVerbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetQuiet(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("test message")
	Info("test message")
	Section("Storage")

	assert.Zero(t, buf.Len())
}

func TestInfo_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Info("remote %s", "ok")

	assert.Equal(t, "[INFO] remote ok\n", buf.String())
}

func TestSection_WhenVerbose(t *testing.T) {
	buf := capture(t, true)

	Section("Storage")

	assert.Equal(t, "\n=== Storage ===\n", buf.String())
}

func TestWarn_WrittenWithoutVerbose(t *testing.T) {
	buf := capture(t, false)

	Warn("remote failed: %v", "timeout")

	assert.Equal(t, "[WARN] remote failed: timeout\n", buf.String())
}

func TestWarn_SuppressedWhenQuiet(t *testing.T) {
	buf := capture(t, false)
	SetQuiet(true)

	Warn("remote failed")

	assert.Zero(t, buf.Len())
}

func TestError_AlwaysWritten(t *testing.T) {
	buf := capture(t, false)
	SetQuiet(true)

	Error("both backends failed")

	assert.Equal(t, "[ERROR] both backends failed\n", buf.String())
}
