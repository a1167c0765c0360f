package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 20, Max: 50}
	tests := []struct {
		name  string
		value int
		want  int
	}{
		{name: "zero uses default", value: 0, want: 20},
		{name: "negative uses default", value: -3, want: 20},
		{name: "within range", value: 10, want: 10},
		{name: "above max", value: 500, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPageSize(tt.value, cfg))
		})
	}

	assert.Equal(t, 1, ClampPageSize(0, PageSizeConfig{}))
}

func TestNewPage(t *testing.T) {
	id := func(s string) string { return s }

	full := NewPage([]string{"c", "b"}, 2, id)
	assert.True(t, full.HasMore)
	assert.Equal(t, "b", full.NextCursor)

	short := NewPage([]string{"a"}, 2, id)
	assert.False(t, short.HasMore)
	assert.Equal(t, "a", short.NextCursor)

	empty := NewPage[string](nil, 2, id)
	assert.False(t, empty.HasMore)
	assert.Empty(t, empty.NextCursor)
	assert.NotNil(t, empty.Items)
}
