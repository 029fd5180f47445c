package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommentOrder(t *testing.T) {
	tests := []struct {
		message string
		ok      bool
		sku     string
		qty     int
	}{
		{"order", true, "", 1},
		{"ORDER #tshirt-01", true, "TSHIRT-01", 1},
		{"order #tshirt-01 x2", true, "TSHIRT-01", 2},
		{"buy 3x #cap", true, "CAP", 3},
		{"beli sku12 3", true, "SKU12", 3},
		{"pesan: 5", true, "", 5},
		{"buy sku9 qty 4", true, "SKU9", 4},
		{"order please", true, "", 1},
		{"order TSHIRT-RED 2", true, "TSHIRT-RED", 2},
		{"buy KAOS x3", true, "KAOS", 3},
		{"beli kaos_merah", true, "KAOS_MERAH", 1},
		{"order dong 2", true, "", 2},
		{"order #mug x0", false, "", 0},
		{"order #mug x100", false, "", 0},
		{"buy qty", false, "", 0},
		{"nice stream!", false, "", 0},
		{"I want to order", false, "", 0},
		{"", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, ok := ParseCommentOrder(tt.message)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.sku, got.SKU)
				assert.Equal(t, tt.qty, got.Quantity)
			}
		})
	}
}
