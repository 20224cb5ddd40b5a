package ibkr

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

// ResolveActiveFuture returns the front-month contract for the symbol:
// the listed contract with the earliest expiration still in the future.
func (c *Client) ResolveActiveFuture(ctx context.Context, symbol string) (FutureContract, error) {
	var listed map[string][]FutureContract
	path := fmt.Sprintf("/trsrv/futures?symbols=%s", symbol)
	if err := c.getJSON(ctx, path, &listed); err != nil {
		return FutureContract{}, fmt.Errorf("listing %s futures: %w", symbol, err)
	}
	contracts := listed[symbol]
	if len(contracts) == 0 {
		return FutureContract{}, fmt.Errorf("no futures listed for %s", symbol)
	}
	sort.Slice(contracts, func(i, j int) bool {
		return contracts[i].Expiration < contracts[j].Expiration
	})
	today := time.Now().Format("20060102")
	for _, fc := range contracts {
		if fc.Expiration >= today {
			c.log.Info("resolved active future",
				"symbol", symbol, "conid", fc.ConID, "expiration", fc.Expiration)
			return fc, nil
		}
	}
	return FutureContract{}, fmt.Errorf("all %d %s contracts already expired", len(contracts), symbol)
}

// FuturesQuote snapshots the current bid/ask for a contract. The first
// snapshot request primes the gateway's market-data stream, so the call is
// made twice with a short settle in between.
func (c *Client) FuturesQuote(ctx context.Context, conid int) (Quote, error) {
	path := fmt.Sprintf("/iserver/marketdata/snapshot?conids=%d&fields=%s", conid, snapshotFields)
	if _, err := c.get(ctx, path); err != nil {
		return Quote{}, fmt.Errorf("priming quote stream: %w", err)
	}
	select {
	case <-ctx.Done():
		return Quote{}, ctx.Err()
	case <-time.After(snapshotSettle):
	}
	var raw []map[string]any
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return Quote{}, fmt.Errorf("fetching quote: %w", err)
	}
	if len(raw) == 0 {
		return Quote{}, fmt.Errorf("no quote returned for conid %d", conid)
	}
	q := Quote{
		Bid: parseField(raw[0], fieldBid),
		Ask: parseField(raw[0], fieldAsk),
	}
	if math.IsNaN(q.Bid) || math.IsNaN(q.Ask) || q.Bid <= 0 || q.Ask <= 0 {
		// Off-hours the book can be empty; fall back to last.
		last := parseField(raw[0], fieldLast)
		if math.IsNaN(last) || last <= 0 {
			return Quote{}, fmt.Errorf("conid %d returned no usable prices", conid)
		}
		q.Bid, q.Ask = last, last
	}
	return q, nil
}
