package simtrader

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// gammaBase is the public Polymarket Gamma API used for resolution lookups.
const gammaBase = "https://gamma-api.polymarket.com/markets?slug="

// Resolution describes the terminal (or current) state of a market, fetched
// for research convenience. It never feeds the ledger: a replay is valued
// from its own recorded book, not from how the market eventually resolved.
type Resolution struct {
	Slug          string
	Closed        bool
	Outcomes      []string
	OutcomePrices []decimal.Decimal
}

// Resolved reports whether one outcome has been paid out at 1.
func (r Resolution) Resolved() bool {
	if !r.Closed {
		return false
	}
	for _, p := range r.OutcomePrices {
		if p.Equal(decimal.NewFromInt(1)) {
			return true
		}
	}
	return false
}

// WinningOutcome returns the outcome whose price resolved to 1, if any.
func (r Resolution) WinningOutcome() (string, bool) {
	for i, p := range r.OutcomePrices {
		if p.Equal(decimal.NewFromInt(1)) && i < len(r.Outcomes) {
			return r.Outcomes[i], true
		}
	}
	return "", false
}

// LookupResolution fetches a market's resolution state by slug from the
// Gamma API, using the daily disk-cached client. Pass a nil client to use it.
func LookupResolution(client *http.Client, slug string) (Resolution, error) {
	if client == nil {
		client = daily()
	}

	var jobj any
	if err := jwget(client, gammaBase+slug, &jobj); err != nil {
		return Resolution{}, fmt.Errorf("error in wget %q: %w", slug, err)
	}

	res := Resolution{Slug: slug}

	jval, err := jsonpath.Get("$[0].closed", jobj)
	if err != nil {
		return Resolution{}, fmt.Errorf("market %q not found: %w", slug, err)
	}
	if closed, ok := jval.(bool); ok {
		res.Closed = closed
	}

	// Gamma stringifies the outcome arrays, so they need a second decode.
	res.Outcomes, err = gammaStringArray(jobj, "$[0].outcomes")
	if err != nil {
		return Resolution{}, fmt.Errorf("error parsing outcomes for %q: %w", slug, err)
	}

	priceStrs, err := gammaStringArray(jobj, "$[0].outcomePrices")
	if err != nil {
		return Resolution{}, fmt.Errorf("error parsing outcome prices for %q: %w", slug, err)
	}
	for _, s := range priceStrs {
		p, err := decimal.NewFromString(s)
		if err != nil {
			return Resolution{}, fmt.Errorf("error parsing outcome price %q for %q: %w", s, slug, err)
		}
		res.OutcomePrices = append(res.OutcomePrices, p)
	}

	return res, nil
}

// gammaStringArray extracts a JSON-encoded string array stored as a string
// field, e.g. "[\"Yes\", \"No\"]".
func gammaStringArray(jobj any, path string) ([]string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	raw, ok := jval.(string)
	if !ok {
		return nil, fmt.Errorf("%q is not a string field", path)
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}
