package cell

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/oakwood-commons/bookgrid/internal/book"
	"github.com/oakwood-commons/bookgrid/pkg/gradient"
	"github.com/oakwood-commons/bookgrid/pkg/premium"
)

// Public orders live for 24 hours.
const orderLifetime = 24 * time.Hour

// Expiry thresholds, in percent of lifetime left.
const (
	expiryError   = 15.0
	expiryWarning = 30.0
)

// swapUnit converts a BTC amount into thousands of satoshis.
const swapUnit = 100000

// Cell is one rendered table cell. Color, when set, overrides the tone.
type Cell struct {
	Text  string
	Tone  Tone
	Bold  bool
	Color *gradient.RGBA
}

// Context carries what renderers need besides the record itself.
type Context struct {
	Now     time.Time
	Swap    bool // amounts are bitcoin swaps, shown in K Sats
	Encoder premium.Encoder
}

// RenderOrder renders one order cell. Kinds that do not apply to orders
// render empty.
func RenderOrder(kind Kind, o book.Order, ctx Context) Cell {
	switch kind {
	case Robot:
		return Cell{Text: o.MakerNick, Tone: statusTone(o.MakerStatus)}
	case RobotAvatar:
		return Cell{Text: initials(o.MakerNick, 2), Tone: statusTone(o.MakerStatus)}
	case Coordinator:
		return Cell{Text: o.CoordinatorShortAlias}
	case Type:
		if o.IsSell() {
			return Cell{Text: "Seller"}
		}
		return Cell{Text: "Buyer"}
	case Amount:
		return Cell{Text: FormatAmount(o, ctx.Swap)}
	case Currency:
		return Cell{Text: o.CurrencyCode()}
	case Payment:
		return Cell{Text: o.PaymentMethod}
	case PaymentIcons:
		return Cell{Text: paymentIcons(o.PaymentMethod)}
	case Price:
		return Cell{Text: fmt.Sprintf("%s %s/BTC", humanize.CommafWithDigits(o.Price, 2), o.CurrencyCode())}
	case Premium:
		enc := ctx.Encoder.Encode(premium.Sample{RawPercent: o.Premium, Side: o.Side()})
		return Cell{Text: FormatPremium(o.Premium), Bold: enc.Weight.Bold(), Color: &enc.Color}
	case Expiry:
		left := ExpiryPercent(o.ExpiresAt, ctx.Now)
		return Cell{Text: fmt.Sprintf("%.0f%%", left), Tone: expiryTone(left)}
	case Timer:
		return Cell{Text: FormatDuration(o.EscrowDuration)}
	case Sats:
		return Cell{Text: FormatSats(o.SatoshisNow)}
	case OrderID:
		return Cell{Text: "#" + strconv.Itoa(o.ID)}
	case Bond:
		return Cell{Text: strconv.FormatFloat(o.BondSize, 'f', -1, 64) + "%"}
	}
	return Cell{}
}

// RenderCoordinator renders one roster cell. Kinds that do not apply to
// coordinators render empty.
func RenderCoordinator(kind Kind, c book.Coordinator) Cell {
	switch kind {
	case Alias:
		return Cell{Text: c.LongAlias}
	case AliasShort:
		return Cell{Text: c.ShortAlias}
	case Up:
		switch {
		case c.LoadingInfo:
			return Cell{Text: "…", Tone: Muted}
		case c.Up:
			return Cell{Text: "✔", Tone: Success}
		default:
			return Cell{Text: "✘", Tone: Error}
		}
	case Enabled:
		if c.Enabled {
			return Cell{Text: "[x]", Tone: Success}
		}
		return Cell{Text: "[ ]", Tone: Muted}
	}
	return Cell{}
}

// FormatAmount renders the traded amount or range. Swap amounts are in BTC
// and shown as thousands of satoshis.
func FormatAmount(o book.Order, swap bool) string {
	scale, digits, suffix := 1.0, 2, ""
	if swap {
		scale, digits, suffix = swapUnit, 0, " K Sats"
	}
	if o.HasRange {
		return humanize.CommafWithDigits(o.MinAmount*scale, digits) + "-" +
			humanize.CommafWithDigits(o.MaxAmount*scale, digits) + suffix
	}
	return humanize.CommafWithDigits(o.Amount*scale, digits) + suffix
}

// FormatPremium prints a premium percentage to at most four decimals.
func FormatPremium(p float64) string {
	rounded := math.Round(p*1e4) / 1e4
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + "%"
}

// FormatDuration prints seconds as whole hours, or minutes below half an hour.
func FormatDuration(seconds int) string {
	hours := math.Round(float64(seconds) / 3600)
	if hours > 0 {
		return fmt.Sprintf("%.0fh", hours)
	}
	return fmt.Sprintf("%.0fm", math.Round(float64(seconds)/60))
}

// FormatSats prints an amount of satoshis in millions or thousands.
func FormatSats(sats float64) string {
	if sats > 1e6 {
		return humanize.CommafWithDigits(sats/1e6, 2) + " M"
	}
	return humanize.Comma(int64(math.Round(sats/1e3))) + " K"
}

// ExpiryPercent is the share of an order's lifetime left at now, in [0, 100].
func ExpiryPercent(expiresAt, now time.Time) float64 {
	left := float64(expiresAt.Sub(now)) / float64(orderLifetime) * 100
	return math.Max(0, math.Min(100, left))
}

func expiryTone(percent float64) Tone {
	switch {
	case percent < expiryError:
		return Error
	case percent < expiryWarning:
		return Warning
	default:
		return Success
	}
}

func statusTone(status string) Tone {
	switch strings.ToLower(status) {
	case "active":
		return Success
	case "seen recently":
		return Warning
	case "":
		return Plain
	default:
		return Muted
	}
}

// initials returns up to n leading runes, upper-cased.
func initials(s string, n int) string {
	var b strings.Builder
	for i := 0; i < n && s != ""; i++ {
		r, size := utf8.DecodeRuneInString(s)
		b.WriteRune(unicode.ToUpper(r))
		s = s[size:]
	}
	return b.String()
}

// paymentIcons abbreviates each payment method to its first letter.
func paymentIcons(methods string) string {
	fields := strings.Fields(methods)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, initials(f, 1))
	}
	return strings.Join(out, "")
}
