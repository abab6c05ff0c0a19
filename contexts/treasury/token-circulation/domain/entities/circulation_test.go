package entities

import (
	"errors"
	"testing"

	domainerrors "ballotbridge/contexts/treasury/token-circulation/domain/errors"
)

func TestPercentageAmountNeverEatsIntoFee(t *testing.T) {
	fees := []int64{0, 1, 5000, 10_000, 2_100_000}
	for _, fee := range fees {
		for balance := int64(0); balance <= 50_000; balance += 37 {
			amount, err := PercentageAmount(balance, fee, 9000)
			if balance <= fee {
				if !errors.Is(err, domainerrors.ErrInsufficientBalance) {
					t.Fatalf("balance=%d fee=%d: expected insufficient balance, got amount=%d err=%v", balance, fee, amount, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("balance=%d fee=%d: unexpected error %v", balance, fee, err)
			}
			if amount <= 0 || amount > balance-fee {
				t.Fatalf("balance=%d fee=%d: amount %d outside (0, %d]", balance, fee, amount, balance-fee)
			}
		}
	}
}

func TestPercentageAmountFloorsAndClamps(t *testing.T) {
	cases := []struct {
		balance int64
		fee     int64
		want    int64
	}{
		{balance: 2_100_000, fee: 5000, want: 1_890_000},
		{balance: 10_001, fee: 0, want: 9000},
		{balance: 10_000, fee: 5000, want: 5000},
		{balance: 9_223_372_036_854_775_807, fee: 5000, want: 8_301_034_833_169_298_226},
	}
	for _, tc := range cases {
		got, err := PercentageAmount(tc.balance, tc.fee, 9000)
		if err != nil {
			t.Fatalf("balance=%d: %v", tc.balance, err)
		}
		if got != tc.want {
			t.Fatalf("balance=%d fee=%d: expected %d, got %d", tc.balance, tc.fee, tc.want, got)
		}
	}
	if _, err := PercentageAmount(100, 1, 0); !errors.Is(err, domainerrors.ErrInvalidTransfer) {
		t.Fatalf("expected invalid transfer for zero basis points, got %v", err)
	}
}

func TestFullAmount(t *testing.T) {
	got, err := FullAmount(2_100_000, 5000)
	if err != nil || got != 2_095_000 {
		t.Fatalf("expected 2095000, got %d (%v)", got, err)
	}
	if _, err := FullAmount(5000, 5000); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}
