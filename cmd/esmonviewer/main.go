package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"gopkg.in/natefinch/lumberjack.v2"

	"esmon/src/chartengine"
	"esmon/src/config"
	"esmon/src/ibkr"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    *config.Config
	log    *slog.Logger

	client *ibkr.Client
	future ibkr.FutureContract

	engine      *chartengine.Engine
	chartCanvas *canvas.Image
	overlay     *gestureOverlay

	statusLabel *widget.Label
	connectBtn  *widget.Button
	refreshBtn  *widget.Button
	cancelBtn   *widget.Button

	connected     bool
	quoteStop     chan struct{}
	refreshCancel context.CancelFunc
}

func setupLogging(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		return slog.New(slog.NewJSONHandler(rotator, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := setupLogging(cfg)
	slog.SetDefault(log)

	a := app.NewWithID("com.esmon.viewer")
	w := a.NewWindow("ES Options Monitor")
	w.Resize(fyne.NewSize(1100, 700))

	state := &uiState{
		app:    a,
		window: w,
		cfg:    cfg,
		log:    log,
		client: ibkr.NewClient(cfg.GatewayURL, log),
		engine: chartengine.New(chartengine.DefaultConfig()),
	}

	// Restore the persisted exposure formula before building controls.
	if f, ok := chartengine.ParseFormula(a.Preferences().StringWithFallback("exposureFormula", string(chartengine.FormulaGFL))); ok {
		state.engine.SetFormula(f)
	}

	state.chartCanvas = canvas.NewImageFromImage(chartengine.Blank(100, 60))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.chartCanvas.SetMinSize(fyne.NewSize(900, 500))
	state.overlay = newGestureOverlay(state)

	state.statusLabel = widget.NewLabel("Disconnected")

	formulaSelect := widget.NewSelect(chartengine.Formulas(), func(v string) {
		f, ok := chartengine.ParseFormula(v)
		if !ok {
			return
		}
		state.engine.SetFormula(f)
		a.Preferences().SetString("exposureFormula", v)
		redrawChart(state)
	})
	formulaSelect.Selected = string(state.engine.Formula())

	state.connectBtn = widget.NewButton("Connect", func() { toggleConnect(state) })
	state.refreshBtn = widget.NewButton("Refresh Options", func() { refreshOptions(state) })
	state.refreshBtn.Disable()
	state.cancelBtn = widget.NewButton("Cancel", func() {
		if state.refreshCancel != nil {
			state.refreshCancel()
		}
	})
	state.cancelBtn.Disable()
	exportBtn := widget.NewButton("Export PNG", func() { exportChart(state) })

	top := container.NewHBox(
		state.connectBtn,
		state.refreshBtn,
		state.cancelBtn,
		widget.NewLabel("Exposure:"), formulaSelect,
		exportBtn,
		state.statusLabel,
	)
	content := container.NewBorder(top, nil, nil, nil,
		container.NewStack(state.chartCanvas, state.overlay))
	w.SetContent(content)

	// Redraw on window resize so the plot area tracks the overlay size.
	if w.Canvas() != nil {
		done := make(chan struct{})
		w.SetOnClosed(func() {
			disconnect(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					fyne.Do(func() { syncEngineSize(state) })
				}
			}
		}()
	}

	w.ShowAndRun()
}

// syncEngineSize matches the engine canvas to the overlay's current size and
// redraws when it changed. Runs on the UI thread.
func syncEngineSize(state *uiState) {
	if state.overlay == nil {
		return
	}
	sz := state.overlay.Size()
	if sz.Width < 1 || sz.Height < 1 {
		return
	}
	if state.engine.Resize(float64(sz.Width), float64(sz.Height)) {
		redrawChart(state)
	}
}

// redrawChart re-renders the engine's frame into the chart canvas. Runs on
// the UI thread.
func redrawChart(state *uiState) {
	frame := state.engine.Redraw()
	state.chartCanvas.Image = chartengine.Rasterize(frame)
	state.chartCanvas.Refresh()
}

func setStatus(state *uiState, text string) {
	fyne.Do(func() { state.statusLabel.SetText(text) })
}

func toggleConnect(state *uiState) {
	if state.connected {
		disconnect(state)
		return
	}
	state.connected = true
	state.connectBtn.SetText("Disconnect")
	state.statusLabel.SetText("Connecting…")
	go connect(state)
}

func disconnect(state *uiState) {
	if state.refreshCancel != nil {
		state.refreshCancel()
		state.refreshCancel = nil
	}
	if state.quoteStop != nil {
		close(state.quoteStop)
		state.quoteStop = nil
	}
	state.connected = false
	state.connectBtn.SetText("Connect")
	state.refreshBtn.Disable()
	state.statusLabel.SetText("Disconnected")
}

// connect authenticates against the gateway, resolves the front-month
// future, loads price history and starts the live quote poll.
func connect(state *uiState) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	ok, err := state.client.Authenticated(ctx)
	if err != nil {
		state.log.Error("gateway auth check failed", "error", err)
		setStatus(state, "Gateway unreachable")
		fyne.Do(func() { disconnect(state) })
		return
	}
	if !ok {
		setStatus(state, "Gateway not authenticated")
		fyne.Do(func() { disconnect(state) })
		return
	}
	future, err := state.client.ResolveActiveFuture(ctx, state.cfg.Symbol)
	if err != nil {
		state.log.Error("resolving future failed", "error", err)
		setStatus(state, "No active future")
		fyne.Do(func() { disconnect(state) })
		return
	}
	state.future = future
	setStatus(state, fmt.Sprintf("%s %s: loading history…", future.Symbol, future.Expiration))

	bars, err := state.client.History(ctx, future.ConID, state.cfg.HistoryPeriod, state.cfg.HistoryBar)
	if err != nil {
		state.log.Error("loading history failed", "error", err)
		setStatus(state, "History load failed")
	} else {
		samples := barsToSamples(bars)
		fyne.Do(func() {
			state.engine.PushPriceHistory(samples)
			redrawChart(state)
		})
	}

	stop := make(chan struct{})
	fyne.Do(func() {
		state.quoteStop = stop
		state.refreshBtn.Enable()
	})
	setStatus(state, fmt.Sprintf("%s %s connected", future.Symbol, future.Expiration))
	go pollQuotes(state, future.ConID, stop)
}

// pollQuotes fetches a bid/ask snapshot on the configured interval and
// feeds it to the engine as a live tick.
func pollQuotes(state *uiState, conid int, stop chan struct{}) {
	t := time.NewTicker(state.cfg.QuoteInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(context.Background(), state.cfg.QuoteInterval)
			q, err := state.client.FuturesQuote(ctx, conid)
			cancel()
			if err != nil {
				state.log.Warn("quote poll failed", "error", err)
				continue
			}
			fyne.Do(func() {
				state.engine.UpdateLiveQuote(q.Bid, q.Ask)
				redrawChart(state)
			})
		}
	}
}

// refreshOptions snapshots the option chain around the current spot. The
// fetch runs in the background and can be cancelled from the UI.
func refreshOptions(state *uiState) {
	if state.refreshCancel != nil {
		state.refreshCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	state.refreshCancel = cancel
	state.refreshBtn.Disable()
	state.cancelBtn.Enable()
	state.statusLabel.SetText("Refreshing options…")

	go func() {
		defer func() {
			fyne.Do(func() {
				state.cancelBtn.Disable()
				if state.connected {
					state.refreshBtn.Enable()
				}
			})
		}()

		q, err := state.client.FuturesQuote(ctx, state.future.ConID)
		if err != nil {
			state.log.Error("spot quote failed", "error", err)
			setStatus(state, "Spot quote failed")
			return
		}
		spot := (q.Bid + q.Ask) / 2
		month := optionMonth(time.Now())
		strikes, err := state.client.Strikes(ctx, state.future.ConID, month, spot, state.cfg.StrikeWindow)
		if err != nil {
			state.log.Error("listing strikes failed", "error", err)
			setStatus(state, "No strikes found")
			return
		}
		chain, err := state.client.ChainSnapshot(ctx, state.future.ConID, month, state.cfg.TradingClass, strikes)
		if err != nil {
			if ctx.Err() != nil {
				setStatus(state, "Refresh cancelled")
			} else {
				state.log.Error("chain snapshot failed", "error", err)
				setStatus(state, "Chain snapshot failed")
			}
			return
		}
		rows := chainToRows(chain)
		fyne.Do(func() {
			state.engine.PushOptionsSnapshot(rows, spot)
			redrawChart(state)
		})
		setStatus(state, fmt.Sprintf("%d strikes at %s", len(rows), time.Now().Format("15:04:05")))
	}()
}

// exportChart writes the current chart as a PNG with a caption naming the
// contract and exposure formula.
func exportChart(state *uiState) {
	img := state.chartCanvas.Image
	if img == nil {
		return
	}
	caption := fmt.Sprintf("%s %s  exposure=%s  %s",
		state.cfg.Symbol, state.future.Expiration,
		state.engine.Formula(), time.Now().Format("2006-01-02 15:04:05"))
	stamped := stampCaption(img, caption)
	dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := writePNG(wc, stamped); err != nil {
			state.log.Error("export failed", "error", err)
			dialog.ShowError(err, state.window)
		}
	}, state.window)
}

// optionMonth formats the contract month the gateway expects, e.g. "AUG25".
func optionMonth(t time.Time) string {
	return strings.ToUpper(t.Format("Jan06"))
}

func barsToSamples(bars []ibkr.Bar) []chartengine.PriceSample {
	samples := make([]chartengine.PriceSample, 0, len(bars))
	for _, b := range bars {
		samples = append(samples, chartengine.Trade(b.Time, b.Close))
	}
	return samples
}

func chainToRows(chain []ibkr.StrikeQuote) []chartengine.ExposureRow {
	rows := make([]chartengine.ExposureRow, 0, len(chain))
	for _, sq := range chain {
		rows = append(rows, chartengine.ExposureRow{
			Strike: sq.Strike,
			Call:   sideMetrics(sq.Call),
			Put:    sideMetrics(sq.Put),
		})
	}
	return rows
}

func sideMetrics(s *ibkr.OptionSide) *chartengine.SideMetrics {
	if s == nil {
		return nil
	}
	return &chartengine.SideMetrics{
		Delta:        s.Delta,
		OpenInterest: s.OpenInterest,
		Volume:       s.Volume,
	}
}
