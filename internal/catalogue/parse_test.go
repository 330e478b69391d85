package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "dollar", in: "$19.99", want: 19.99},
		{name: "thousands separator", in: "$1,299.50", want: 1299.50},
		{name: "bare number", in: " 4.99 ", want: 4.99},
		{name: "empty", in: "", want: 0},
		{name: "free", in: "Free", want: 0},
		{name: "free to play", in: "FREE to play", want: 0},
		{name: "free with number", in: "$5 or free", want: 0},
		{name: "garbage", in: "abc", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParsePrice(tt.in), 1e-9)
		})
	}
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want float64
	}{
		{name: "gigabytes", in: "6.78gb", want: 6.78},
		{name: "upper case with space", in: " 2.34 GB ", want: 2.34},
		{name: "megabytes", in: "450mb", want: 450.0 / 1024},
		{name: "bare number", in: "12", want: 12},
		{name: "empty", in: "", want: 0},
		{name: "garbage", in: "xyz", want: 0},
		{name: "suffix only", in: "gb", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseSize(tt.in), 1e-9)
		})
	}
}
