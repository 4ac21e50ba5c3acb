package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		input Hash
		want  bool
	}{
		{
			name:  "Valid Hash (64 chars)",
			input: Hash(strings.Repeat("a", 64)),
			want:  true,
		},
		{
			name:  "Too Short",
			input: Hash("abc"),
			want:  false,
		},
		{
			name:  "Empty",
			input: Hash(""),
			want:  false,
		},
		{
			name:  "Too Long",
			input: Hash(strings.Repeat("a", 65)),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.input.IsValid())
		})
	}
}

func TestHash_Short(t *testing.T) {
	assert.Equal(t, "aabbccdd", Hash("aabbccddeeff").Short())
	assert.Equal(t, "abc", Hash("abc").Short())

	var zero Hash
	assert.True(t, zero.IsZero())
}

func TestObjectID_IsZero(t *testing.T) {
	assert.True(t, ObjectID("").IsZero())
	assert.True(t, ObjectID("  ").IsZero())
	assert.False(t, ObjectID("vudl:1").IsZero())
	assert.Equal(t, "vudl:1", ObjectID("vudl:1").String())
}

func TestStreamName_String(t *testing.T) {
	s := StreamName("DC")
	assert.Equal(t, "DC", s.String())
	assert.False(t, s.IsZero())
	assert.True(t, StreamName("").IsZero())
}

func TestRunID(t *testing.T) {
	var zero RunID
	assert.True(t, zero.IsZero())
	assert.Equal(t, "2X1b", RunID("2X1b").String())
}
