package simtrader

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLotsTotalSizeAndAvgCost(t *testing.T) {
	t.Run("empty position", func(t *testing.T) {
		var l lots
		assertDecimalEqual(t, "totalSize", l.totalSize(), decimal.Zero)
		assertDecimalEqual(t, "avgCost", l.avgCost(), decimal.Zero)
	})

	t.Run("weighted average", func(t *testing.T) {
		l := lots{
			{Size: d("10"), Cost: d("0.40")},
			{Size: d("30"), Cost: d("0.60")},
		}
		assertDecimalEqual(t, "totalSize", l.totalSize(), d("40"))
		// (10*0.40 + 30*0.60) / 40 = 0.55
		assertDecimalEqual(t, "avgCost", l.avgCost(), d("0.55"))
	})
}

func TestLotsConsume(t *testing.T) {
	buys := lots{
		{Size: d("10"), Cost: d("0.40")},
		{Size: d("10"), Cost: d("0.50")},
	}

	t.Run("partial sale from the oldest lot", func(t *testing.T) {
		realized, consumed, remaining := buys.consume(d("5"), d("0.60"))
		// 5 * (0.60 - 0.40)
		assertDecimalEqual(t, "realized", realized, d("1.00"))
		assertDecimalEqual(t, "consumed", consumed, d("5"))
		if len(remaining) != 2 {
			t.Fatalf("remaining lots = %d, want 2", len(remaining))
		}
		assertDecimalEqual(t, "remaining[0].Size", remaining[0].Size, d("5"))
		assertDecimalEqual(t, "remaining[0].Cost", remaining[0].Cost, d("0.40"))
		assertDecimalEqual(t, "remaining[1].Size", remaining[1].Size, d("10"))
		assertDecimalEqual(t, "remaining[1].Cost", remaining[1].Cost, d("0.50"))
	})

	t.Run("sale spanning two lots", func(t *testing.T) {
		realized, consumed, remaining := buys.consume(d("15"), d("0.60"))
		// 10*(0.60-0.40) + 5*(0.60-0.50) = 2.50
		assertDecimalEqual(t, "realized", realized, d("2.50"))
		assertDecimalEqual(t, "consumed", consumed, d("15"))
		if len(remaining) != 1 {
			t.Fatalf("remaining lots = %d, want 1", len(remaining))
		}
		assertDecimalEqual(t, "remaining[0].Size", remaining[0].Size, d("5"))
		assertDecimalEqual(t, "remaining[0].Cost", remaining[0].Cost, d("0.50"))
	})

	t.Run("exact liquidation", func(t *testing.T) {
		realized, consumed, remaining := buys.consume(d("20"), d("0.45"))
		// 10*(0.45-0.40) + 10*(0.45-0.50) = 0
		assertDecimalEqual(t, "realized", realized, decimal.Zero)
		assertDecimalEqual(t, "consumed", consumed, d("20"))
		if len(remaining) != 0 {
			t.Fatalf("remaining lots = %d, want 0", len(remaining))
		}
	})

	t.Run("oversell realizes only what is held", func(t *testing.T) {
		realized, consumed, remaining := buys.consume(d("25"), d("0.60"))
		// Only 20 shares exist: 10*0.20 + 10*0.10 = 3.00
		assertDecimalEqual(t, "realized", realized, d("3.00"))
		assertDecimalEqual(t, "consumed", consumed, d("20"))
		if len(remaining) != 0 {
			t.Fatalf("remaining lots = %d, want 0", len(remaining))
		}
	})

	t.Run("selling at a loss", func(t *testing.T) {
		realized, consumed, _ := buys.consume(d("10"), d("0.30"))
		assertDecimalEqual(t, "realized", realized, d("-1.00"))
		assertDecimalEqual(t, "consumed", consumed, d("10"))
	})

	t.Run("input lots are not mutated", func(t *testing.T) {
		_, _, _ = buys.consume(d("15"), d("0.60"))
		assertDecimalEqual(t, "buys[0].Size", buys[0].Size, d("10"))
		assertDecimalEqual(t, "buys[1].Size", buys[1].Size, d("10"))
	})
}

func TestLotsClone(t *testing.T) {
	l := lots{{Size: d("10"), Cost: d("0.40")}}
	c := l.clone()
	c[0].Size = d("99")
	assertDecimalEqual(t, "original size", l[0].Size, d("10"))

	var empty lots
	if got := empty.clone(); got == nil || len(got) != 0 {
		t.Errorf("clone of empty lots = %#v, want an empty non-nil slice", got)
	}
}
