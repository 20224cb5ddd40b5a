package ibkr

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// contractInfo mirrors /iserver/secdef/info.
type contractInfo struct {
	ConID        int    `json:"conid"`
	Symbol       string `json:"symbol"`
	Right        string `json:"right"`
	TradingClass string `json:"tradingClass"`
	MaturityDate string `json:"maturityDate"`
}

type strikesResponse struct {
	Call []float64 `json:"call"`
	Put  []float64 `json:"put"`
}

// Strikes returns the strikes listed for the option month, restricted to
// the window around spot when window > 0.
func (c *Client) Strikes(ctx context.Context, conid int, month string, spot, window float64) ([]float64, error) {
	path := fmt.Sprintf("/iserver/secdef/strikes?conid=%d&sectype=OPT&month=%s", conid, url.QueryEscape(month))
	var resp strikesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching strikes: %w", err)
	}
	strikes := resp.Call
	if len(resp.Put) > len(strikes) {
		strikes = resp.Put
	}
	out := make([]float64, 0, len(strikes))
	for _, s := range strikes {
		if window > 0 && (s < spot-window || s > spot+window) {
			continue
		}
		out = append(out, s)
	}
	sort.Float64s(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("no strikes within %.0f of %.2f", window, spot)
	}
	return out, nil
}

// optionConIDs resolves the call and put contract IDs for one strike of a
// trading class. A missing side is returned as zero, not an error.
func (c *Client) optionConIDs(ctx context.Context, underlying int, month, tradingClass string, strike float64) (call, put int, err error) {
	for _, right := range []string{"C", "P"} {
		path := fmt.Sprintf("/iserver/secdef/info?conid=%d&sectype=OPT&month=%s&strike=%s&right=%s",
			underlying, url.QueryEscape(month), strconv.FormatFloat(strike, 'f', -1, 64), right)
		var infos []contractInfo
		if err := c.getJSON(ctx, path, &infos); err != nil {
			return 0, 0, fmt.Errorf("contract info %s %.2f: %w", right, strike, err)
		}
		for _, info := range infos {
			if tradingClass != "" && info.TradingClass != tradingClass {
				continue
			}
			if right == "C" {
				call = info.ConID
			} else {
				put = info.ConID
			}
			break
		}
	}
	return call, put, nil
}

// ChainSnapshot resolves each strike's call/put contracts and snapshots
// delta, open interest and volume for both sides. The context is checked
// between strikes so a cancelled refresh stops promptly.
func (c *Client) ChainSnapshot(ctx context.Context, underlying int, month, tradingClass string, strikes []float64) ([]StrikeQuote, error) {
	type pending struct {
		strike    float64
		call, put int
	}
	resolved := make([]pending, 0, len(strikes))
	conids := make([]int, 0, 2*len(strikes))
	for _, strike := range strikes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		call, put, err := c.optionConIDs(ctx, underlying, month, tradingClass, strike)
		if err != nil {
			c.log.Warn("skipping strike", "strike", strike, "error", err)
			continue
		}
		if call == 0 && put == 0 {
			continue
		}
		resolved = append(resolved, pending{strike: strike, call: call, put: put})
		if call != 0 {
			conids = append(conids, call)
		}
		if put != 0 {
			conids = append(conids, put)
		}
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("no option contracts resolved for %s %s", tradingClass, month)
	}

	sides, err := c.snapshotSides(ctx, conids)
	if err != nil {
		return nil, err
	}
	rows := make([]StrikeQuote, 0, len(resolved))
	for _, p := range resolved {
		rows = append(rows, StrikeQuote{
			Strike: p.strike,
			Call:   sides[p.call],
			Put:    sides[p.put],
		})
	}
	c.log.Info("chain snapshot complete", "strikes", len(rows), "contracts", len(conids))
	return rows, nil
}

// snapshotSides fetches one combined market-data snapshot for all option
// conids and maps each to its parsed side metrics. Contracts without model
// greeks map to nil.
func (c *Client) snapshotSides(ctx context.Context, conids []int) (map[int]*OptionSide, error) {
	joined := make([]byte, 0, len(conids)*10)
	for i, id := range conids {
		if i > 0 {
			joined = append(joined, ',')
		}
		joined = strconv.AppendInt(joined, int64(id), 10)
	}
	path := fmt.Sprintf("/iserver/marketdata/snapshot?conids=%s&fields=%s", joined, snapshotFields)
	if _, err := c.get(ctx, path); err != nil {
		return nil, fmt.Errorf("priming option stream: %w", err)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(snapshotSettle):
	}
	var raw []map[string]any
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("fetching option snapshot: %w", err)
	}
	sides := make(map[int]*OptionSide, len(raw))
	for _, entry := range raw {
		conid, ok := entry["conid"].(float64)
		if !ok {
			continue
		}
		delta := parseField(entry, fieldDelta)
		if math.IsNaN(delta) {
			// No model greeks delivered; the engine treats this side as
			// zero exposure.
			continue
		}
		oi := parseField(entry, fieldOpenInterest)
		if math.IsNaN(oi) {
			oi = 0
		}
		vol := parseField(entry, fieldVolume)
		if math.IsNaN(vol) {
			vol = 0
		}
		sides[int(conid)] = &OptionSide{Delta: delta, OpenInterest: oi, Volume: vol}
	}
	return sides, nil
}
