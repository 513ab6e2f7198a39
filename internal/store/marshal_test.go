package store

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_RoundTrip(t *testing.T) {
	data, err := marshalColumns([]string{"user_id", "username"})
	require.NoError(t, err)
	assert.Equal(t, `["user_id","username"]`, data)

	cols, err := unmarshalColumns(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "username"}, cols)

	empty, err := unmarshalColumns("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = unmarshalColumns("{")
	assert.Error(t, err)
}

func TestBindValue(t *testing.T) {
	v, err := bindValue(map[string]any{"a": "<b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"<b>"}`, v)

	v, err = bindValue([]any{1, "x"})
	require.NoError(t, err)
	assert.Equal(t, `[1,"x"]`, v)

	v, err = bindValue("rose")
	require.NoError(t, err)
	assert.Equal(t, "rose", v)
}

func TestScanValue(t *testing.T) {
	assert.Equal(t, "rose", scanValue([]byte("rose")))
	assert.Equal(t, "2024-01-02T03:04:05Z", scanValue(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, int64(7), scanValue(int64(7)))
	assert.Nil(t, scanValue(nil))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("lookup: %w", sql.ErrNoRows)))
	assert.False(t, isNoRows(fmt.Errorf("other")))
}
