package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel(" warn "))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"))
}

func TestJSONFormatWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("json")
	SetLevel(LevelInfo)
	t.Cleanup(func() {
		SetFormat("text")
	})

	WithFields(Fields{"application_id": "abc"}).Warn("notification failed")
	Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "abc", entry["application_id"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "notification failed", entry["msg"])
}
