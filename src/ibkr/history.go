package ibkr

import (
	"context"
	"fmt"
	"time"
)

// historyResponse mirrors /iserver/marketdata/history.
type historyResponse struct {
	Symbol string       `json:"symbol"`
	Data   []historyBar `json:"data"`
}

type historyBar struct {
	T int64   `json:"t"` // epoch millis
	O float64 `json:"o"`
	C float64 `json:"c"`
	H float64 `json:"h"`
	L float64 `json:"l"`
}

// History fetches bars for a contract, e.g. period "1d" at bar "1min",
// oldest first.
func (c *Client) History(ctx context.Context, conid int, period, barSize string) ([]Bar, error) {
	path := fmt.Sprintf("/iserver/marketdata/history?conid=%d&period=%s&bar=%s&outsideRth=false",
		conid, period, barSize)
	var resp historyResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	bars := make([]Bar, 0, len(resp.Data))
	for _, hb := range resp.Data {
		bars = append(bars, Bar{
			Time:  time.UnixMilli(hb.T),
			Open:  hb.O,
			High:  hb.H,
			Low:   hb.L,
			Close: hb.C,
		})
	}
	c.log.Info("fetched history", "conid", conid, "period", period, "bars", len(bars))
	return bars, nil
}
