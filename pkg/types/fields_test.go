package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		wantErr bool
		wantLen int
	}{
		{name: "empty selects all", in: nil, wantLen: 0},
		{name: "known fields", in: []string{"status", "message"}, wantLen: 2},
		{name: "duplicates collapse", in: []string{"status", "status"}, wantLen: 1},
		{name: "unknown field rejected", in: []string{"status", "bogus"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := ParseFields(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidField)
				return
			}
			require.NoError(t, err)
			assert.Len(t, fs, tt.wantLen)
		})
	}
}

func TestFieldSet_Has(t *testing.T) {
	var empty FieldSet
	assert.True(t, empty.Has(FieldMessage), "empty projection selects everything")

	fs := FieldSet{FieldStatus: {}}
	assert.True(t, fs.Has(FieldStatus))
	assert.False(t, fs.Has(FieldMessage))
}

func TestFieldSet_WithDefaults(t *testing.T) {
	t.Run("empty stays empty", func(t *testing.T) {
		var fs FieldSet
		assert.Nil(t, fs.WithDefaults(true))
	})

	t.Run("adds always-on columns", func(t *testing.T) {
		fs := FieldSet{FieldMessage: {}}.WithDefaults(false)
		assert.True(t, fs.Has(FieldGroupID))
		assert.True(t, fs.Has(FieldStatus))
		assert.True(t, fs.Has(FieldKind))
		assert.False(t, fs.Has(FieldOwnerID))
	})

	t.Run("withPK adds the primary key", func(t *testing.T) {
		fs := FieldSet{FieldMessage: {}}.WithDefaults(true)
		assert.True(t, fs.Has(FieldOwnerID))
		assert.True(t, fs.Has(FieldTaskID))
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		fs := FieldSet{FieldMessage: {}}
		fs.WithDefaults(true)
		assert.Len(t, fs, 1)
	})
}

func TestFieldSet_Columns(t *testing.T) {
	t.Run("canonical order", func(t *testing.T) {
		fs := FieldSet{FieldMessage: {}, FieldOwnerID: {}, FieldStatus: {}}
		assert.Equal(t, []string{"uid", "status", "message"}, fs.Columns())
	})

	t.Run("empty returns every column", func(t *testing.T) {
		var fs FieldSet
		cols := fs.Columns()
		assert.Len(t, cols, len(taskFieldOrder))
		assert.Equal(t, "uid", cols[0])
		assert.Equal(t, "payload", cols[len(cols)-1])
	})
}
