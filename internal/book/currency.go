package book

import (
	"sort"
	"strconv"
	"strings"
)

// currencies maps the numeric codes coordinators publish to ISO codes.
var currencies = map[int]string{
	1:    "USD",
	2:    "EUR",
	3:    "JPY",
	4:    "GBP",
	5:    "AUD",
	6:    "CAD",
	7:    "CNY",
	8:    "CHF",
	9:    "SEK",
	10:   "NZD",
	12:   "TRY",
	14:   "ZAR",
	15:   "BRL",
	21:   "INR",
	23:   "MXN",
	29:   "ARS",
	300:  "XAU",
	1000: "BTC",
}

// CurrencyCode returns the ISO code for a numeric currency, or the number
// itself when it is unknown.
func CurrencyCode(id int) string {
	if code, ok := currencies[id]; ok {
		return code
	}
	return strconv.Itoa(id)
}

// CurrencyID resolves an ISO code (case-insensitive) or a numeric string.
func CurrencyID(code string) (int, bool) {
	code = strings.TrimSpace(code)
	if id, err := strconv.Atoi(code); err == nil {
		return id, true
	}
	for id, c := range currencies {
		if strings.EqualFold(c, code) {
			return id, true
		}
	}
	return 0, false
}

// CurrencyCodes lists the known ISO codes in numeric order.
func CurrencyCodes() []string {
	ids := make([]int, 0, len(currencies))
	for id := range currencies {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	codes := make([]string, len(ids))
	for i, id := range ids {
		codes[i] = currencies[id]
	}
	return codes
}
