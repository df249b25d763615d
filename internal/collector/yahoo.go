package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/sirupsen/logrus"

	"MarketLens/internal/logger"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
)

const (
	DefaultChartURL  = "https://query1.finance.yahoo.com/v8/finance/chart"
	DefaultSearchURL = "https://query1.finance.yahoo.com/v1/finance/search"
	// Yahoo rejects requests without a browser-like User-Agent.
	DefaultUserAgent = "Mozilla/5.0 (compatible; MarketLens/1.0)"

	defaultHTTPTimeout = 30 * time.Second
	defaultNewsCount   = 3
	maxErrorBody       = 256
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	ChartURL  string
	SearchURL string
	UserAgent string
	Client    *http.Client

	log *logrus.Entry
}

// Option configures a YahooFetcher.
type Option func(*YahooFetcher)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *YahooFetcher) {
		if hc != nil {
			f.Client = hc
		}
	}
}

// WithChartURL overrides the chart endpoint base URL.
func WithChartURL(u string) Option {
	return func(f *YahooFetcher) {
		if u != "" {
			f.ChartURL = strings.TrimRight(u, "/")
		}
	}
}

// WithSearchURL overrides the search endpoint URL.
func WithSearchURL(u string) Option {
	return func(f *YahooFetcher) {
		if u != "" {
			f.SearchURL = u
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *YahooFetcher) {
		if ua != "" {
			f.UserAgent = ua
		}
	}
}

// WithTimeout sets the http.Client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *YahooFetcher) {
		if d > 0 {
			f.Client.Timeout = d
		}
	}
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, opts ...Option) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	f := &YahooFetcher{
		ChartURL:  DefaultChartURL,
		SearchURL: DefaultSearchURL,
		UserAgent: DefaultUserAgent,
		Client: &http.Client{
			Timeout:   defaultHTTPTimeout,
			Transport: transport,
		},
		log: logger.GetLogger().WithField("fetcher", "yahoo"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []yahooResult `json:"result"`
		Error  *yahooError   `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooResult struct {
	Meta       yahooMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []null.Float `json:"open"`
			High   []null.Float `json:"high"`
			Low    []null.Float `json:"low"`
			Close  []null.Float `json:"close"`
			Volume []null.Float `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []null.Float `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

type yahooMeta struct {
	Symbol               string     `json:"symbol"`
	Currency             string     `json:"currency"`
	ExchangeName         string     `json:"exchangeName"`
	FullExchangeName     string     `json:"fullExchangeName"`
	InstrumentType       string     `json:"instrumentType"`
	ShortName            string     `json:"shortName"`
	LongName             string     `json:"longName"`
	RegularMarketPrice   null.Float `json:"regularMarketPrice"`
	PreviousClose        null.Float `json:"previousClose"`
	ChartPreviousClose   null.Float `json:"chartPreviousClose"`
	RegularMarketDayHigh null.Float `json:"regularMarketDayHigh"`
	RegularMarketDayLow  null.Float `json:"regularMarketDayLow"`
	RegularMarketVolume  null.Float `json:"regularMarketVolume"`
	FiftyTwoWeekHigh     null.Float `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      null.Float `json:"fiftyTwoWeekLow"`
}

// yahooSearch is the response structure from Yahoo Finance search API.
type yahooSearch struct {
	News *[]struct {
		UUID                string   `json:"uuid"`
		Title               string   `json:"title"`
		Publisher           string   `json:"publisher"`
		Link                string   `json:"link"`
		ProviderPublishTime int64    `json:"providerPublishTime"`
		Type                string   `json:"type"`
		RelatedTickers      []string `json:"relatedTickers"`
	} `json:"news"`
}

// get performs one GET with the provider headers and returns body and status.
// Only transport and read failures are returned as errors.
func (f *YahooFetcher) get(ctx context.Context, endpoint, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.Client.Do(req)
	metrics.ProviderLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, 0, fmt.Errorf("%w: yahoo %s: %w", ErrNetwork, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "read_error").Inc()
		return nil, resp.StatusCode, fmt.Errorf("%w: yahoo %s read body: %w", ErrNetwork, endpoint, err)
	}
	metrics.ProviderRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	f.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"elapsed":  time.Since(start).String(),
	}).Debug("provider request done")
	return body, resp.StatusCode, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, rng Range, interval Interval) (*yahooResult, error) {
	q := url.Values{}
	q.Set("range", string(rng))
	q.Set("interval", string(interval))
	u := fmt.Sprintf("%s/%s?%s", f.ChartURL, url.PathEscape(symbol), q.Encode())

	body, status, err := f.get(ctx, "chart", u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if status < 200 || status >= 300 {
		// Unknown symbols come back as 404 with a well-formed error envelope.
		if status == http.StatusNotFound && decodeErr == nil && chart.Chart.Error != nil {
			return nil, fmt.Errorf("%w: yahoo: %s", ErrDataUnavailable, chart.Chart.Error.Description)
		}
		return nil, fmt.Errorf("%w: yahoo: status %d, body: %s", ErrNetwork, status, truncate(body))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: yahoo decode: %w", ErrNetwork, decodeErr)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo api error: %s", ErrDataUnavailable, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: yahoo: no chart result", ErrDataUnavailable)
	}
	return &chart.Chart.Result[0], nil
}

// FetchQuote returns the metadata block of a 1d/1d chart request.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, opError("quote", symbol, err)
	}
	result, err := f.fetchChart(ctx, symbol, Range1d, Interval1d)
	if err != nil {
		return nil, opError("quote", symbol, err)
	}
	q := toQuote(symbol, result.Meta)
	return &q, nil
}

// FetchSeries returns the bars of a chart request. Range and interval are
// validated before any request is made.
func (f *YahooFetcher) FetchSeries(ctx context.Context, symbol string, rng Range, interval Interval) (*model.PriceSeries, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, opError("series", symbol, err)
	}
	if err := rng.Validate(); err != nil {
		return nil, opError("series", symbol, err)
	}
	if err := interval.Validate(); err != nil {
		return nil, opError("series", symbol, err)
	}
	result, err := f.fetchChart(ctx, symbol, rng, interval)
	if err != nil {
		return nil, opError("series", symbol, err)
	}
	return &model.PriceSeries{
		Symbol:   symbol,
		Range:    string(rng),
		Interval: string(interval),
		Meta:     toQuote(symbol, result.Meta),
		Bars:     toBars(result),
	}, nil
}

// SearchNews returns at most count news items for query, in provider order.
// A count <= 0 means the default of 3.
func (f *YahooFetcher) SearchNews(ctx context.Context, query string, count int) ([]model.NewsItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, opError("news", query, fmt.Errorf("%w: empty query", ErrInvalidParameter))
	}
	if count <= 0 {
		count = defaultNewsCount
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("newsCount", strconv.Itoa(count))
	q.Set("quotesCount", "1")

	body, status, err := f.get(ctx, "search", f.SearchURL+"?"+q.Encode())
	if err != nil {
		return nil, opError("news", query, err)
	}
	if status < 200 || status >= 300 {
		return nil, opError("news", query, fmt.Errorf("%w: yahoo: status %d, body: %s", ErrNetwork, status, truncate(body)))
	}
	var search yahooSearch
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, opError("news", query, fmt.Errorf("%w: yahoo decode: %w", ErrNetwork, err))
	}
	if search.News == nil {
		return nil, opError("news", query, fmt.Errorf("%w: yahoo: no news block", ErrDataUnavailable))
	}

	raw := *search.News
	if len(raw) > count {
		raw = raw[:count]
	}
	items := make([]model.NewsItem, 0, len(raw))
	for _, n := range raw {
		item := model.NewsItem{
			UUID:           n.UUID,
			Title:          n.Title,
			Publisher:      n.Publisher,
			Link:           n.Link,
			Type:           n.Type,
			RelatedTickers: n.RelatedTickers,
		}
		if n.ProviderPublishTime > 0 {
			item.PublishedAt = time.Unix(n.ProviderPublishTime, 0).UTC()
		}
		items = append(items, item)
	}
	return items, nil
}

func toQuote(symbol string, m yahooMeta) model.QuoteSnapshot {
	if m.Symbol != "" {
		symbol = m.Symbol
	}
	prev := m.PreviousClose
	if !prev.Valid {
		prev = m.ChartPreviousClose
	}
	return model.QuoteSnapshot{
		Symbol:           symbol,
		Currency:         m.Currency,
		ExchangeName:     m.ExchangeName,
		FullExchangeName: m.FullExchangeName,
		ShortName:        m.ShortName,
		LongName:         m.LongName,
		InstrumentType:   m.InstrumentType,
		Price:            m.RegularMarketPrice,
		PreviousClose:    prev,
		DayHigh:          m.RegularMarketDayHigh,
		DayLow:           m.RegularMarketDayLow,
		Volume:           m.RegularMarketVolume,
		High52Week:       m.FiftyTwoWeekHigh,
		Low52Week:        m.FiftyTwoWeekLow,
	}
}

// toBars zips the parallel arrays. Arrays shorter than the timestamp array
// leave the trailing fields missing.
func toBars(r *yahooResult) []model.Bar {
	bars := make([]model.Bar, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		bars[i].Time = time.Unix(ts, 0).UTC()
	}
	if len(r.Indicators.Quote) > 0 {
		quote := r.Indicators.Quote[0]
		for i := range bars {
			bars[i].Open = at(quote.Open, i)
			bars[i].High = at(quote.High, i)
			bars[i].Low = at(quote.Low, i)
			bars[i].Close = at(quote.Close, i)
			bars[i].Volume = at(quote.Volume, i)
		}
	}
	if len(r.Indicators.AdjClose) > 0 {
		adj := r.Indicators.AdjClose[0].AdjClose
		for i := range bars {
			bars[i].AdjClose = at(adj, i)
		}
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars
}

func at(values []null.Float, i int) null.Float {
	if i < len(values) {
		return values[i]
	}
	return null.Float{}
}

func checkSymbol(symbol string) error {
	if strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidParameter)
	}
	return nil
}

func truncate(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
