package model

import "testing"

func TestUser_CanAfford(t *testing.T) {
	testCases := []struct {
		name    string
		credits int
		cost    int
		want    bool
	}{
		{"exact balance", 2, 2, true},
		{"surplus", 10, 2, true},
		{"short by one", 1, 2, false},
		{"zero balance", 0, 1, false},
		{"free cost", 0, 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Credits: tc.credits}
			if got := u.CanAfford(tc.cost); got != tc.want {
				t.Errorf("CanAfford(%d) with %d credits = %v, want %v", tc.cost, tc.credits, got, tc.want)
			}
		})
	}
}
