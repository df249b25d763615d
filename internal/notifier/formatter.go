package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

const missing = "N/A"

func num(v null.Float, prec int) string {
	if !v.Valid {
		return missing
	}
	return fmt.Sprintf("%.*f", prec, v.Float64)
}

func pct(v null.Float) string {
	if !v.Valid {
		return missing
	}
	return fmt.Sprintf("%+.2f%%", v.Float64)
}

func pct4(v null.Float) string {
	if !v.Valid {
		return missing
	}
	return fmt.Sprintf("%+.4f%%", v.Float64)
}

func volume(v null.Float) string {
	if !v.Valid {
		return missing
	}
	return fmt.Sprintf("%.0f", v.Float64)
}

func trendIcon(t model.Trend) string {
	switch t {
	case model.TrendBullish:
		return "🟢"
	case model.TrendBearish:
		return "🔴"
	default:
		return "⚪"
	}
}

// FormatQuote formats a quote snapshot.
func FormatQuote(q *model.QuoteSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💹 %s (%s)\n", q.DisplayName(), q.Symbol)
	fmt.Fprintf(&b, "价格: %s %s\n", num(q.Price, 2), q.Currency)
	fmt.Fprintf(&b, "昨收: %s\n", num(q.PreviousClose, 2))
	fmt.Fprintf(&b, "日内: %s ~ %s\n", num(q.DayLow, 2), num(q.DayHigh, 2))
	fmt.Fprintf(&b, "成交量: %s\n", volume(q.Volume))
	fmt.Fprintf(&b, "52周: %s ~ %s\n", num(q.Low52Week, 2), num(q.High52Week, 2))
	return b.String()
}

// FormatFundamentals formats the quote fields and 52-week distances.
func FormatFundamentals(f *model.Fundamentals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s (%s)\n", f.Name, f.Symbol)
	if f.Exchange != "" {
		fmt.Fprintf(&b, "交易所: %s | 类型: %s\n", f.Exchange, f.InstrumentType)
	}
	fmt.Fprintf(&b, "价格: %s %s (昨收 %s)\n", num(f.Price, 2), f.Currency, num(f.PreviousClose, 2))
	fmt.Fprintf(&b, "日内: %s ~ %s | 成交量: %s\n", num(f.DayLow, 2), num(f.DayHigh, 2), volume(f.Volume))
	fmt.Fprintf(&b, "52周高: %s (距离 %s)\n", num(f.High52Week, 2), pct(f.PctFrom52WeekHigh))
	fmt.Fprintf(&b, "52周低: %s (距离 %s)\n", num(f.Low52Week, 2), pct(f.PctFrom52WeekLow))
	fmt.Fprintf(&b, "52周位置: %s\n", num(f.Position52Week, 2))
	return b.String()
}

// FormatTrend formats a trend analysis.
func FormatTrend(t *model.TrendAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s 趋势: %s | 信号: %s\n", trendIcon(t.Trend), t.Symbol, t.Trend, t.Signal)
	fmt.Fprintf(&b, "当前价格: %s\n", num(t.CurrentPrice, 2))
	fmt.Fprintf(&b, "SMA20: %s | SMA50: %s | SMA100: %s\n", num(t.SMA20, 2), num(t.SMA50, 2), num(t.SMA100, 2))
	fmt.Fprintf(&b, "RSI14: %s\n", num(t.RSI14, 1))
	fmt.Fprintf(&b, "动量 5日: %s | 20日: %s\n", pct(t.Momentum5Day), pct(t.Momentum20Day))
	fmt.Fprintf(&b, "52周高: %s (距离 %s)\n", num(t.High52Week, 2), pct(t.PctFrom52WeekHigh))
	return b.String()
}

// FormatHistory lists stored trend snapshots, newest first. Times are shown in local time.
func FormatHistory(symbol string, rows []model.TrendSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗂 %s 趋势历史\n", symbol)
	if len(rows) == 0 {
		b.WriteString("  无记录\n")
	}
	for _, r := range rows {
		t := r.Analysis
		fmt.Fprintf(&b, "%s %s %s  价格 %s  SMA20 %s  SMA50 %s  %s\n",
			r.RecordedAt.In(time.Local).Format("2006-01-02 15:04"), trendIcon(t.Trend), t.Trend,
			num(t.CurrentPrice, 2), num(t.SMA20, 2), num(t.SMA50, 2), t.Signal)
	}
	return b.String()
}

// FormatKeyRatios formats return and volatility statistics.
func FormatKeyRatios(k *model.KeyRatios) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📐 %s 关键指标\n", k.Symbol)
	fmt.Fprintf(&b, "价格: %s | 日涨跌: %s\n", num(k.Price, 2), pct(k.DayChangePct))
	fmt.Fprintf(&b, "52周: %s ~ %s\n", num(k.Low52Week, 2), num(k.High52Week, 2))
	fmt.Fprintf(&b, "日均收益: %s\n", pct4(k.AvgDailyReturnPct))
	fmt.Fprintf(&b, "年化波动率: %s\n", pct(k.AnnualizedVolatilityPct))
	fmt.Fprintf(&b, "年初至今: %s\n", pct(k.YTDReturnPct))
	fmt.Fprintf(&b, "样本天数: %d\n", k.TradingDays)
	return b.String()
}

// FormatYearly formats one line per calendar year.
func FormatYearly(y *model.YearlyPerformance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s 年度表现\n", y.Symbol)
	if len(y.Years) == 0 {
		b.WriteString("  无数据\n")
	}
	for _, yr := range y.Years {
		fmt.Fprintf(&b, "  %d: %s → %s (%s) 高 %s 低 %s 均 %s\n",
			yr.Year, num(yr.Open, 2), num(yr.Close, 2), pct(yr.ReturnPct),
			num(yr.High, 2), num(yr.Low, 2), num(yr.AvgClose, 2))
	}
	return b.String()
}

// FormatNews formats headlines. Times are shown in local time.
func FormatNews(query string, items []model.NewsItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📰 %s 新闻\n", query)
	if len(items) == 0 {
		b.WriteString("  无新闻\n")
	}
	for i, n := range items {
		published := missing
		if !n.PublishedAt.IsZero() {
			published = n.PublishedAt.In(time.Local).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "%d. %s\n   %s | %s\n   %s\n", i+1, n.Title, n.Publisher, published, n.Link)
	}
	return b.String()
}

// FormatSeries formats bars as a compact table, oldest first.
func FormatSeries(s *model.PriceSeries) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s/%s (%d bars)\n", s.Symbol, s.Range, s.Interval, len(s.Bars))
	b.WriteString("date        open      high      low       close     adj       volume\n")
	for _, bar := range s.Bars {
		fmt.Fprintf(&b, "%-11s %-9s %-9s %-9s %-9s %-9s %s\n",
			bar.Time.Format("2006-01-02"),
			num(bar.Open, 2), num(bar.High, 2), num(bar.Low, 2),
			num(bar.Close, 2), num(bar.AdjClose, 2), volume(bar.Volume))
	}
	return b.String()
}

// FormatTrendDigest summarizes a watchlist scan, one line per symbol.
// Failed symbols are listed with their error.
func FormatTrendDigest(at time.Time, results []*model.TrendAnalysis, failures map[string]error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 MarketLens 趋势扫描 | %s\n\n", at.Format("2006-01-02"))
	for _, t := range results {
		fmt.Fprintf(&b, "%s %-8s %s  SMA20 %s  5日 %s  %s\n",
			trendIcon(t.Trend), t.Symbol, num(t.CurrentPrice, 2), num(t.SMA20, 2),
			pct(t.Momentum5Day), t.Signal)
	}
	writeFailures(&b, failures)
	return b.String()
}

// FormatRatiosDigest summarizes key ratios of a watchlist scan.
func FormatRatiosDigest(at time.Time, results []*model.KeyRatios, failures map[string]error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📐 MarketLens 指标周报 | %s\n\n", at.Format("2006-01-02"))
	for _, k := range results {
		fmt.Fprintf(&b, "%-8s 年初至今 %s  波动率 %s  日均 %s\n",
			k.Symbol, pct(k.YTDReturnPct), pct(k.AnnualizedVolatilityPct), pct(k.AvgDailyReturnPct))
	}
	writeFailures(&b, failures)
	return b.String()
}

func writeFailures(b *strings.Builder, failures map[string]error) {
	if len(failures) == 0 {
		return
	}
	b.WriteString("\n⚠️ 失败:\n")
	symbols := make([]string, 0, len(failures))
	for sym := range failures {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	for _, sym := range symbols {
		fmt.Fprintf(b, "  %s: %v\n", sym, failures[sym])
	}
}

// FormatHelp lists the supported bot commands.
func FormatHelp() string {
	return "🤖 MarketLens 命令:\n" +
		"/quote SYMBOL - 实时报价\n" +
		"/trend SYMBOL - 趋势分析\n" +
		"/ratios SYMBOL - 关键指标\n" +
		"/news QUERY - 最新新闻\n" +
		"/history SYMBOL - 趋势历史\n" +
		"/help - 帮助"
}
