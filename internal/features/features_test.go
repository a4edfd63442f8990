package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  float64
		found bool
	}{
		{"normalized", "heizkörper riss, 2 monteure, 3.0h arbeit", 3.0, true},
		{"raw", "Heizkörper riss, 2 Monteure, 3h Arbeit", 3.0, true},
		{"decimal", "ca 2.5 h", 2.5, true},
		{"first wins", "1.5h dann 4h", 1.5, true},
		{"zero is a value", "0h", 0, true},
		{"glued to word", "3 heizkörper", 0, false},
		{"absent", "Rohrbruch im Keller", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDuration(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractHeadcount(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  int
		found bool
	}{
		{"monteure", "2 Monteure, 3h", 2, true},
		{"personen", "mit 3 personen", 3, true},
		{"helfer glued", "1helfer", 1, true},
		{"upper case", "4 PERSONEN", 4, true},
		{"first wins", "2 helfer und 5 monteure", 2, true},
		{"absent", "Rohrbruch im Keller", 0, false},
		{"overflow skipped", "99999999999999999999999 personen", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractHeadcount(tt.in)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	s := Extract("heizkörper riss, 2 monteure, 3.0h arbeit")
	assert.Equal(t, Signals{Hours: 3, HasHours: true, Headcount: 2, HasHeadcount: true}, s)
}
