package debug

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saveAndRestoreState saves the debug package state and returns a cleanup function
func saveAndRestoreState(t *testing.T) func() {
	t.Setenv("GREPDOC_DEBUG", "")
	t.Setenv("DEBUG", "")
	originalDebug := EnableDebug
	originalQuiet := QuietMode
	originalOutput := debugOutput
	originalFile := debugFile
	return func() {
		EnableDebug = originalDebug
		QuietMode = originalQuiet
		debugOutput = originalOutput
		debugFile = originalFile
	}
}

func TestSetQuietMode(t *testing.T) {
	defer saveAndRestoreState(t)()

	SetQuietMode(true)
	assert.True(t, QuietMode)

	SetQuietMode(false)
	assert.False(t, QuietMode)
}

func TestIsDebugEnabled(t *testing.T) {
	defer saveAndRestoreState(t)()

	EnableDebug = "false"
	QuietMode = false
	assert.False(t, IsDebugEnabled())

	EnableDebug = "true"
	assert.True(t, IsDebugEnabled())

	// Quiet mode wins over the build flag
	QuietMode = true
	assert.False(t, IsDebugEnabled())

	QuietMode = false
	EnableDebug = "invalid"
	assert.False(t, IsDebugEnabled())
}

func TestIsDebugEnabled_Environment(t *testing.T) {
	defer saveAndRestoreState(t)()
	EnableDebug = "false"
	QuietMode = false

	t.Setenv("GREPDOC_DEBUG", "1")
	assert.True(t, IsDebugEnabled())

	t.Setenv("GREPDOC_DEBUG", "")
	t.Setenv("DEBUG", "true")
	assert.True(t, IsDebugEnabled())
}

func TestLog(t *testing.T) {
	defer saveAndRestoreState(t)()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	QuietMode = false
	Log("TEST", "Hello %s", "World")

	output := buf.String()
	assert.Contains(t, output, "[DEBUG:TEST]")
	assert.Contains(t, output, "Hello World")
}

func TestLog_QuietMode(t *testing.T) {
	defer saveAndRestoreState(t)()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	QuietMode = true
	Log("TEST", "Should not appear")

	assert.Empty(t, buf.String())
}

func TestLog_NoWriter(t *testing.T) {
	defer saveAndRestoreState(t)()

	EnableDebug = "true"
	SetDebugOutput(nil)
	assert.NotPanics(t, func() {
		Log("TEST", "dropped")
		Printf("dropped")
	})
}

func TestComponentLoggers(t *testing.T) {
	defer saveAndRestoreState(t)()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"

	tests := []struct {
		log  func(string, ...interface{})
		want string
	}{
		{LogWindow, "[DEBUG:WINDOW]"},
		{LogIngest, "[DEBUG:INGEST]"},
		{LogPipeline, "[DEBUG:PIPELINE]"},
		{LogExport, "[DEBUG:EXPORT]"},
		{LogWatch, "[DEBUG:WATCH]"},
	}
	for _, tt := range tests {
		buf.Reset()
		tt.log("value=%d\n", 7)
		assert.Contains(t, buf.String(), tt.want)
		assert.Contains(t, buf.String(), "value=7")
	}
}

func TestPrintf(t *testing.T) {
	defer saveAndRestoreState(t)()

	var buf bytes.Buffer
	SetDebugOutput(&buf)
	EnableDebug = "true"
	Printf("count=%d", 3)
	assert.Equal(t, "[DEBUG] count=3", buf.String())
}

func TestInitDebugLogFile(t *testing.T) {
	defer saveAndRestoreState(t)()

	path, err := InitDebugLogFile()
	require.NoError(t, err)
	defer os.Remove(path)

	EnableDebug = "true"
	Log("FILE", "to file\n")
	require.NoError(t, CloseDebugLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG:FILE] to file")

	// Closing twice is harmless
	assert.NoError(t, CloseDebugLog())
}
