package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fPtr(f float64) *float64 { return &f }
func iPtr(i int) *int         { return &i }

func TestNewGrade_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ng      NewGrade
		wantErr string
	}{
		{
			name: "ok",
			ng:   NewGrade{CourseID: iPtr(1), StudentID: iPtr(2), Grade: fPtr(15), OutOf: fPtr(20)},
		},
		{
			name: "zero grade is a real mark",
			ng:   NewGrade{CourseID: iPtr(1), StudentID: iPtr(2), Grade: fPtr(0), OutOf: fPtr(20)},
		},
		{
			name:    "missing grade",
			ng:      NewGrade{CourseID: iPtr(1), StudentID: iPtr(2), OutOf: fPtr(20)},
			wantErr: "Missing required fields",
		},
		{
			name:    "missing out_of",
			ng:      NewGrade{CourseID: iPtr(1), StudentID: iPtr(2), Grade: fPtr(10)},
			wantErr: "Missing required fields",
		},
		{
			name:    "out_of zero",
			ng:      NewGrade{CourseID: iPtr(1), StudentID: iPtr(2), Grade: fPtr(0), OutOf: fPtr(0)},
			wantErr: "out_of must be greater than zero",
		},
		{
			name:    "negative grade",
			ng:      NewGrade{CourseID: iPtr(1), StudentID: iPtr(2), Grade: fPtr(-1), OutOf: fPtr(20)},
			wantErr: "grade must be between 0 and out_of",
		},
		{
			name:    "grade above out_of",
			ng:      NewGrade{CourseID: iPtr(1), StudentID: iPtr(2), Grade: fPtr(21), OutOf: fPtr(20)},
			wantErr: "grade must be between 0 and out_of",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ng.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewGrade_percentage(t *testing.T) {
	ng := NewGrade{Grade: fPtr(15), OutOf: fPtr(20)}
	assert.Equal(t, 75.0, ng.percentage())

	ng = NewGrade{Grade: fPtr(0), OutOf: fPtr(20)}
	assert.Equal(t, 0.0, ng.percentage())
}
