// Package cell turns listing records into display cells. Every column
// variant names one Kind; the set is closed so a renderer can never be
// missing at draw time.
package cell

// Kind selects how a column renders its cells.
type Kind int

const (
	None Kind = iota
	Robot
	RobotAvatar
	Coordinator
	Type
	Amount
	Currency
	Payment
	PaymentIcons
	Price
	Premium
	Expiry
	Timer
	Sats
	OrderID
	Bond
	Alias
	AliasShort
	Up
	Enabled
)

var kindNames = [...]string{
	None:         "none",
	Robot:        "robot",
	RobotAvatar:  "robotAvatar",
	Coordinator:  "coordinator",
	Type:         "type",
	Amount:       "amount",
	Currency:     "currency",
	Payment:      "payment",
	PaymentIcons: "paymentIcons",
	Price:        "price",
	Premium:      "premium",
	Expiry:       "expiry",
	Timer:        "timer",
	Sats:         "sats",
	OrderID:      "orderId",
	Bond:         "bond",
	Alias:        "alias",
	AliasShort:   "aliasShort",
	Up:           "up",
	Enabled:      "enabled",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// MarshalText lets kinds appear by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Tone is the semantic colour of a cell; the UI maps tones onto its theme.
type Tone int

const (
	Plain Tone = iota
	Muted
	Success
	Warning
	Error
)
