package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Text(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, false)

	err := f.Table(
		[]string{"SYMBOL", "BID", "ASK"},
		[][]string{
			{"AAPL", "174.50", "174.55"},
			{"SPY", "441.20", "441.22"},
		},
	)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "SYMBOL")
	assert.Contains(t, out, "------")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "441.20")
}

func TestTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)

	err := f.Table(
		[]string{"SYMBOL", "BID"},
		[][]string{{"AAPL", "174.50"}},
	)
	require.NoError(t, err)

	var result []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "AAPL", result[0]["SYMBOL"])
	assert.Equal(t, "174.50", result[0]["BID"])
}

func TestTable_JSON_ShortRow(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)

	err := f.Table(
		[]string{"A", "B", "C"},
		[][]string{{"1", "2"}},
	)
	require.NoError(t, err)

	var result []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "", result[0]["C"])
}

func TestPrint_JSON(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)

	require.NoError(t, f.Print(map[string]int{"count": 3}))

	var result map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, 3, result["count"])
	// Pretty-printed
	assert.True(t, strings.Contains(buf.String(), "\n"))
}

func TestPrint_Text(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, false)

	require.NoError(t, f.Print("hello"))
	assert.Equal(t, "hello\n", buf.String())
}
