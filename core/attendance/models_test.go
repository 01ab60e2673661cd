package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "calendar date", in: "2026-03-02", want: "2026-03-02"},
		{name: "rfc3339 keeps the date only", in: "2026-03-02T23:45:00Z", want: "2026-03-02"},
		{name: "rfc3339 with offset", in: "2026-03-02T01:00:00+03:00", want: "2026-03-02"},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRecord_Validate(t *testing.T) {
	nr := NewRecord{CourseID: 1, StudentID: 2, Date: "2026-03-02"}
	assert.NoError(t, nr.Validate())

	// present is optional; an absent mark defaults to false
	nr.Present = false
	assert.NoError(t, nr.Validate())

	assert.Error(t, (&NewRecord{StudentID: 2, Date: "2026-03-02"}).Validate())
	assert.Error(t, (&NewRecord{CourseID: 1, Date: "2026-03-02"}).Validate())
	assert.Error(t, (&NewRecord{CourseID: 1, StudentID: 2}).Validate())
}
