package outwriter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/faultline-io/faultline/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	assert.Equal(t, "3.14", fmtFloat(3.14159))
	assert.Equal(t, "%d", intFmt)

	fmtFloat, _ = createFormatters(0)
	assert.Equal(t, "3", fmtFloat(3.14159))

	fmtFloat, _ = createFormatters(4)
	assert.Equal(t, "0.5000", fmtFloat(0.5))
}

func TestHeaderTitle(t *testing.T) {
	withEmoji := &contract.Config{UseEmojis: true}
	assert.Equal(t, "🚨 Detected Patterns", headerTitle(withEmoji, "🚨", "Detected Patterns"))

	plain := &contract.Config{UseEmojis: false}
	assert.Equal(t, "Detected Patterns", headerTitle(plain, "🚨", "Detected Patterns"))
}

func TestGetMaxTableDescWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{"narrow override clamps to minimum", 60, 20},
		{"exact minimum boundary", 90, 20},
		{"mid-range override", 120, 50},
		{"wide override clamps to maximum", 300, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTableDescWidth(cfg))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]int{"count": 3})
	require.NoError(t, err)

	// Indented output should span multiple lines
	assert.Contains(t, buf.String(), "\n")

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["count"])
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, werr := w.Write([]byte("hello"))
		return werr
	}, "Wrote test output")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}
