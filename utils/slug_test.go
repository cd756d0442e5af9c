package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Basic Tee", "basic-tee"},
		{"Áo Thun Nam", "ao-thun-nam"},
		{"Đầm Dạ Hội", "dam-da-hoi"},
		{"Quần Jeans  Slim-Fit", "quan-jeans-slim-fit"},
		{"  padded  ", "padded"},
		{"100% Cotton!", "100-cotton"},
		{"Café Été", "cafe-ete"},
		{"---", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	s := Slugify("Áo Khoác Gió Nữ")
	assert.Equal(t, s, Slugify(s))
}
