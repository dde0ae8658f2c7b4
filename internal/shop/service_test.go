package shop

import "testing"

func TestLivesPrice(t *testing.T) {
	tests := []struct {
		amount int
		price  int
		ok     bool
	}{
		{1, 10, true},
		{3, 25, true},
		{5, 40, true},
		{0, 0, false},
		{2, 0, false},
		{4, 0, false},
		{6, 0, false},
		{-1, 0, false},
	}

	for _, tt := range tests {
		price, ok := LivesPrice(tt.amount)
		if ok != tt.ok || price != tt.price {
			t.Errorf("LivesPrice(%d) = (%d, %v), want (%d, %v)", tt.amount, price, ok, tt.price, tt.ok)
		}
	}
}
