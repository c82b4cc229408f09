package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		n, limit, offset int
		start, end       int
	}{
		{10, 3, 0, 0, 3},
		{10, 3, 9, 9, 10},
		{10, 3, 20, 10, 10},
		{10, 0, 2, 2, 10},
		{10, 5, -1, 0, 5},
		{0, 5, 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := Window(tt.n, tt.limit, tt.offset)
		assert.Equal(t, tt.start, start, "start for %+v", tt)
		assert.Equal(t, tt.end, end, "end for %+v", tt)
	}
}

func TestValidUUID(t *testing.T) {
	assert.True(t, ValidUUID(NewID()))
	assert.False(t, ValidUUID("fb_patient_001"))
	assert.False(t, ValidUUID(""))
}

func TestNowIsUTC(t *testing.T) {
	assert.Equal(t, "UTC", Now().Location().String())
}
