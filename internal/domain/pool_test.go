package domain

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestPoolValidate(t *testing.T) {
	mintA := solana.NewWallet().PublicKey()
	mintB := solana.NewWallet().PublicKey()

	tests := []struct {
		name     string
		pool     PoolInfo
		wantKind ErrorKind
	}{
		{
			name: "valid pool",
			pool: PoolInfo{
				TokenA:    TokenMetadata{Mint: mintA},
				TokenB:    TokenMetadata{Mint: mintB},
				Liquidity: map[string]string{LiquidityTotalSupplyKey: "1000"},
			},
			wantKind: KindUnknown,
		},
		{
			name: "identical mints",
			pool: PoolInfo{
				TokenA:    TokenMetadata{Mint: mintA},
				TokenB:    TokenMetadata{Mint: mintA},
				Liquidity: map[string]string{LiquidityTotalSupplyKey: "1000"},
			},
			wantKind: KindInvalidPoolData,
		},
		{
			name: "missing totalSupply",
			pool: PoolInfo{
				TokenA:    TokenMetadata{Mint: mintA},
				TokenB:    TokenMetadata{Mint: mintB},
				Liquidity: map[string]string{"lockedSupply": "10"},
			},
			wantKind: KindInvalidPoolData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pool.Validate()
			if tt.wantKind == KindUnknown {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestPoolTotalSupply(t *testing.T) {
	tests := []struct {
		name      string
		liquidity map[string]string
		want      float64
	}{
		{"parsable", map[string]string{LiquidityTotalSupplyKey: "1500.25"}, 1500.25},
		{"missing", map[string]string{}, 0},
		{"malformed", map[string]string{LiquidityTotalSupplyKey: "abc"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PoolInfo{Liquidity: tt.liquidity}
			if got := p.TotalSupply(); got != tt.want {
				t.Errorf("TotalSupply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPoolReserveOf(t *testing.T) {
	mintA := solana.NewWallet().PublicKey()
	mintB := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()

	pool := PoolInfo{
		TokenA: TokenMetadata{Mint: mintA, Reserve: "1000"},
		TokenB: TokenMetadata{Mint: mintB, Reserve: "250.5"},
	}

	if got, ok := pool.ReserveOf(mintA); !ok || got != 1000 {
		t.Errorf("ReserveOf(mintA) = (%v, %v), want (1000, true)", got, ok)
	}
	if got, ok := pool.ReserveOf(mintB); !ok || got != 250.5 {
		t.Errorf("ReserveOf(mintB) = (%v, %v), want (250.5, true)", got, ok)
	}
	if _, ok := pool.ReserveOf(other); ok {
		t.Error("ReserveOf(other) ok = true, want false")
	}
}

func TestNewTokenPairNormalization(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()

	if NewTokenPair(a, b) != NewTokenPair(b, a) {
		t.Error("NewTokenPair is not order independent")
	}

	pair := NewTokenPair(a, b)
	if pair.MintA.String() > pair.MintB.String() {
		t.Errorf("pair not normalized: %s > %s", pair.MintA, pair.MintB)
	}
}

func TestKindOfWrappedError(t *testing.T) {
	base := Errorf(KindTokenNotInPool, "mint not in pool")
	wrapped := WrapError(KindProviderUnavailable, base, "outer")

	// The outermost kind wins.
	if got := KindOf(wrapped); got != KindProviderUnavailable {
		t.Errorf("KindOf(wrapped) = %v, want %v", got, KindProviderUnavailable)
	}
	if got := KindOf(nil); got != KindUnknown {
		t.Errorf("KindOf(nil) = %v, want %v", got, KindUnknown)
	}
}
