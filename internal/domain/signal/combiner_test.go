package signal

import (
	"math"
	"testing"

	"sentrader/internal/domain/model"
)

func snapshot(score float64, ts int64) model.SentimentSnapshot {
	return model.SentimentSnapshot{Score: score, LastUpdated: ts}
}

func TestCombineAgreementBuy(t *testing.T) {
	c := NewCombiner(0.3)

	sig := c.Combine("BTC/USDT", snapshot(0.5, 0), model.StrongBuy, 42000, 1000)

	if sig.Strength != model.StrongBuy {
		t.Errorf("strength = %s, want strong_buy", sig.Strength)
	}
	if math.Abs(sig.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %v, want 0.8", sig.Confidence)
	}
	if sig.Price != 42000 || sig.Timestamp != 1000 {
		t.Errorf("price/ts = %v/%d, want 42000/1000", sig.Price, sig.Timestamp)
	}
	if sig.SentimentScore != 0.5 || sig.TechnicalSignal != model.StrongBuy {
		t.Errorf("provenance = %v/%s, want 0.5/strong_buy", sig.SentimentScore, sig.TechnicalSignal)
	}
}

func TestCombineAgreementSell(t *testing.T) {
	c := NewCombiner(0.3)

	sig := c.Combine("BTC/USDT", snapshot(-0.4, 0), model.Sell, 42000, 1000)

	if sig.Strength != model.Sell {
		t.Errorf("strength = %s, want sell", sig.Strength)
	}
	if math.Abs(sig.Confidence-0.7) > 1e-9 {
		t.Errorf("confidence = %v, want 0.7", sig.Confidence)
	}
}

func TestCombineConfidenceCappedAtOne(t *testing.T) {
	c := NewCombiner(0.3)

	sig := c.Combine("BTC/USDT", snapshot(0.95, 0), model.Buy, 100, 1000)
	if sig.Confidence != 1 {
		t.Errorf("confidence = %v, want capped at 1", sig.Confidence)
	}
}

func TestCombineDisagreementIsNeutral(t *testing.T) {
	cases := []struct {
		name      string
		score     float64
		technical model.Strength
	}{
		{"bullish sentiment bearish chart", 0.6, model.Sell},
		{"bearish sentiment bullish chart", -0.6, model.StrongBuy},
		{"sentiment inside threshold", 0.2, model.StrongBuy},
		{"exactly at threshold", 0.3, model.Buy},
		{"both neutral", 0.0, model.Neutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCombiner(0.3)
			sig := c.Combine("BTC/USDT", snapshot(tc.score, 0), tc.technical, 100, 1000)
			if sig.Strength != model.Neutral {
				t.Errorf("strength = %s, want neutral", sig.Strength)
			}
			if sig.Confidence != 0.5 {
				t.Errorf("confidence = %v, want fixed 0.5", sig.Confidence)
			}
		})
	}
}

func TestCombineConfidenceRange(t *testing.T) {
	c := NewCombiner(0.3)
	techs := []model.Strength{model.StrongBuy, model.Buy, model.Neutral, model.Sell, model.StrongSell}

	for score := -1.0; score <= 1.0; score += 0.05 {
		for _, tech := range techs {
			sig := c.Combine("BTC/USDT", snapshot(score, 0), tech, 100, 0)
			if sig.Confidence < 0 || sig.Confidence > 1 {
				t.Fatalf("confidence %v out of [0,1] for score=%v tech=%s", sig.Confidence, score, tech)
			}
		}
	}
}

func TestHysteresisHoldsRecentHighConfidenceSignal(t *testing.T) {
	c := NewCombiner(0.3)

	first := c.Combine("BTC/USDT", snapshot(-0.6, 0), model.StrongSell, 100, 0)
	if first.Strength != model.StrongSell || math.Abs(first.Confidence-0.9) > 1e-9 {
		t.Fatalf("setup signal = %s@%v, want strong_sell@0.9", first.Strength, first.Confidence)
	}

	// ten minutes later the inputs flip bullish; the fresh 0.9 sell holds.
	tenMin := int64(10 * 60 * 1000)
	second := c.Combine("BTC/USDT", snapshot(0.5, tenMin), model.Buy, 101, tenMin)

	if second.Strength != model.StrongSell {
		t.Errorf("strength = %s, want held strong_sell", second.Strength)
	}
	if math.Abs(second.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %v, want decayed 0.8", second.Confidence)
	}
	if second.TechnicalSignal != model.Buy || second.SentimentScore != 0.5 {
		t.Errorf("provenance should record the raw inputs, got %s/%v", second.TechnicalSignal, second.SentimentScore)
	}
}

func TestHysteresisConfidenceFloor(t *testing.T) {
	c := NewCombiner(0.3)

	// 0.81 confidence sell, then repeated reversals: confidence decays to
	// the 0.6 floor and stops qualifying for further overrides.
	c.Combine("BTC/USDT", snapshot(-0.51, 0), model.Sell, 100, 0)

	second := c.Combine("BTC/USDT", snapshot(0.6, 0), model.Buy, 100, 1)
	if second.Strength != model.Sell {
		t.Fatalf("strength = %s, want held sell", second.Strength)
	}
	if math.Abs(second.Confidence-0.71) > 1e-9 {
		t.Errorf("confidence = %v, want 0.71", second.Confidence)
	}

	// held signal now sits below 0.8, so the next reversal goes through.
	third := c.Combine("BTC/USDT", snapshot(0.6, 0), model.Buy, 100, 2)
	if third.Strength != model.Buy {
		t.Errorf("strength = %s, want buy once the hold decays", third.Strength)
	}
}

func TestHysteresisExpiresAfterWindow(t *testing.T) {
	c := NewCombiner(0.3)

	c.Combine("BTC/USDT", snapshot(-0.6, 0), model.StrongSell, 100, 0)

	overAnHour := int64(hysteresisWindowMs + 1)
	sig := c.Combine("BTC/USDT", snapshot(0.5, overAnHour), model.Buy, 101, overAnHour)

	if sig.Strength != model.Buy {
		t.Errorf("strength = %s, want buy after the window lapses", sig.Strength)
	}
	if math.Abs(sig.Confidence-0.8) > 1e-9 {
		t.Errorf("confidence = %v, want 0.8", sig.Confidence)
	}
}

func TestHysteresisIgnoresSameDirectionUpgrade(t *testing.T) {
	c := NewCombiner(0.3)

	c.Combine("BTC/USDT", snapshot(0.7, 0), model.Buy, 100, 0) // buy@1.0

	// buy -> strong_buy is the same direction, not a reversal.
	sig := c.Combine("BTC/USDT", snapshot(0.6, 0), model.StrongBuy, 100, 1)
	if sig.Strength != model.StrongBuy {
		t.Errorf("strength = %s, want strong_buy", sig.Strength)
	}
	if math.Abs(sig.Confidence-0.9) > 1e-9 {
		t.Errorf("confidence = %v, want 0.9", sig.Confidence)
	}
}

func TestCombinerStateIsPerSymbol(t *testing.T) {
	c := NewCombiner(0.3)

	c.Combine("BTC/USDT", snapshot(-0.6, 0), model.StrongSell, 100, 0)

	// a different symbol has no prior signal, so no hold applies.
	sig := c.Combine("ETH/USDT", snapshot(0.5, 0), model.Buy, 2500, 1)
	if sig.Strength != model.Buy {
		t.Errorf("strength = %s, want buy for untouched symbol", sig.Strength)
	}

	if _, ok := c.Last("SOL/USDT"); ok {
		t.Error("Last should report false for unseen symbol")
	}
	if last, ok := c.Last("BTC/USDT"); !ok || last.Strength != model.StrongSell {
		t.Errorf("Last(BTC/USDT) = %+v ok=%v, want stored strong_sell", last, ok)
	}
}
