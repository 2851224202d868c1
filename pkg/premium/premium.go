// Package premium encodes an order's price premium as a colour and a font
// weight so outstanding offers stand out in a listing.
package premium

import (
	"math"

	"github.com/oakwood-commons/bookgrid/pkg/gradient"
)

// A sell order at 0% and a buy order at 10% are the outstanding premiums.
const (
	SellStandardPremium   = 10.0
	BuyOutstandingPremium = 10.0
)

// Font weights span six buckets of 100 starting at 400.
const (
	MinWeight   = 400
	MaxWeight   = 900
	weightSteps = 5
	weightStep  = 100
	boldWeight  = 700
)

// Side of the market an order is on.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "sell"
	}
	return "buy"
}

// Weight is a CSS-style font weight in {400, 500, ..., 900}.
type Weight int

// Bold reports whether the weight should render bold on a terminal, which
// only knows regular and bold.
func (w Weight) Bold() bool {
	return w >= boldWeight
}

// Sample is a raw premium percentage on one side of the book.
type Sample struct {
	RawPercent float64
	Side       Side
}

// Encoded is the visual encoding of a Sample.
type Encoded struct {
	Color  gradient.RGBA
	Weight Weight
	Point  float64
}

// Encoder holds the theme colours the gradient runs between.
type Encoder struct {
	Primary    gradient.RGB // text colour of an unremarkable premium
	BuyAccent  gradient.RGB // outstanding buy premium
	SellAccent gradient.RGB // outstanding sell premium
}

// Point normalises a sample to [0, 1], where 1 is the most outstanding.
// Buy premiums scale up from 0; sell premiums scale down from
// SellStandardPremium, since a cheaper sell offer is the better deal.
func Point(s Sample) float64 {
	if s.Side == Buy {
		return gradient.Clamp(s.RawPercent / BuyOutstandingPremium)
	}
	return gradient.Clamp((SellStandardPremium - s.RawPercent) / SellStandardPremium)
}

// WeightFor maps a normalised point to its weight bucket.
func WeightFor(point float64) Weight {
	return Weight(MinWeight + int(math.Round(gradient.Clamp(point)*weightSteps))*weightStep)
}

// Encode returns the colour and weight for a sample.
func (e Encoder) Encode(s Sample) Encoded {
	point := Point(s)
	accent := e.BuyAccent
	if s.Side == Sell {
		accent = e.SellAccent
	}
	return Encoded{
		Color:  gradient.Interpolate(e.Primary, accent, point),
		Weight: WeightFor(point),
		Point:  point,
	}
}
