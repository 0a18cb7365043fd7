package alerts

import "aifinverse-backend/internal/types"

// AllStrategies is the canonical strategy list offered at registration and
// on the live-alerts pages.
var AllStrategies = []string{
	"Momentum Riders (52-week High/Low, All-Time High/Low)",
	"Cycle Count Reversal",
	"Double Top - Double Bottom(Contrabets)",
	"Topping Candle - Bottoming Candle(Contrabets)",
	"Mean Reversion",
	"Pattern Formation",
	"Fundamental Picks (Earnings Season focused)",
}

// indiaAlerts is the sample feed for the Indian market. The feed is fixed;
// "refreshing" re-reads preferences and re-filters, it never fetches data.
var indiaAlerts = []types.AlertRecord{
	{
		Stock:     "RELIANCE",
		Type:      "Momentum Riders (52-week High/Low, All-Time High/Low)",
		Price:     "2,850.45",
		Change:    "+1.24%",
		RSI:       "68.2",
		RSIStatus: "OVERBOUGHT",
		News:      "https://economictimes.indiatimes.com/reliance",
		Chart:     "https://in.tradingview.com/chart/?symbol=NSE%3ARELIANCE",
		Time:      "10:30 AM",
		Strategy:  "Momentum Riders",
	},
	{
		Stock:     "TCS",
		Type:      "Cycle Count Reversal",
		Price:     "3,845.60",
		Change:    "-0.56%",
		RSI:       "42.8",
		RSIStatus: "NEUTRAL",
		News:      "https://economictimes.indiatimes.com/tcs",
		Chart:     "https://in.tradingview.com/chart/?symbol=NSE%3ATCS",
		Time:      "10:45 AM",
		Strategy:  "Cycle Count Reversal",
	},
	{
		Stock:     "HDFCBANK",
		Type:      "Contrabets",
		Price:     "1,725.30",
		Change:    "-0.34%",
		RSI:       "35.2",
		RSIStatus: "OVERSOLD",
		News:      "https://economictimes.indiatimes.com/hdfc-bank",
		Chart:     "https://in.tradingview.com/chart/?symbol=NSE%3AHDFCBANK",
		Time:      "11:00 AM",
		Strategy:  "Double Top - Double Bottom",
	},
	{
		Stock:     "ITC",
		Type:      "Contrabets",
		Price:     "2,845.50",
		Change:    "-0.85%",
		RSI:       "28.7",
		RSIStatus: "OVERSOLD",
		News:      "https://economictimes.indiatimes.com/itc",
		Chart:     "https://in.tradingview.com/chart/?symbol=NSE%3AITC",
		Time:      "11:15 AM",
		Strategy:  "Topping Candle - Bottoming Candle",
	},
	{
		Stock:     "INFY",
		Type:      "Mean Reversion",
		Price:     "1,645.80",
		Change:    "+2.18%",
		RSI:       "72.5",
		RSIStatus: "OVERBOUGHT",
		News:      "https://economictimes.indiatimes.com/infosys",
		Chart:     "https://in.tradingview.com/chart/?symbol=NSE%3AINFY",
		Time:      "11:30 AM",
		Strategy:  "Mean Reversion",
	},
	{
		Stock:     "ICICIBANK",
		Type:      "Pattern Formation",
		Price:     "1,045.75",
		Change:    "+1.82%",
		RSI:       "58.6",
		RSIStatus: "NEUTRAL",
		News:      "https://economictimes.indiatimes.com/icici-bank",
		Chart:     "https://in.tradingview.com/chart/?symbol=NSE%3AICICIBANK",
		Time:      "11:45 AM",
		Strategy:  "Pattern Formation",
	},
	{
		Stock:     "SBIN",
		Type:      "Fundamental Picks (Earnings Season focused)",
		Price:     "625.40",
		Change:    "+0.92%",
		RSI:       "48.3",
		RSIStatus: "NEUTRAL",
		News:      "https://economictimes.indiatimes.com/sbi",
		Chart:     "https://in.tradingview.com/chart/?symbol=NSE%3ASBIN",
		Time:      "12:00 PM",
		Strategy:  "Fundamental Picks",
	},
}

// usAlerts is the sample feed for the US market.
var usAlerts = []types.AlertRecord{
	{
		Stock:     "AAPL",
		Type:      "Momentum Riders (52-week High/Low, All-Time High/Low)",
		Price:     "$229.98",
		Change:    "+0.04%",
		RSI:       "56.05",
		RSIStatus: "NEUTRAL",
		News:      "https://www.cnbc.com/quotes/AAPL",
		Chart:     "https://www.tradingview.com/chart/?symbol=AAPL",
		Time:      "9:45 AM",
		Strategy:  "Momentum Riders",
	},
	{
		Stock:     "TSLA",
		Type:      "Cycle Count Reversal",
		Price:     "$248.50",
		Change:    "-1.12%",
		RSI:       "41.3",
		RSIStatus: "NEUTRAL",
		News:      "https://www.cnbc.com/quotes/TSLA",
		Chart:     "https://www.tradingview.com/chart/?symbol=TSLA",
		Time:      "10:00 AM",
		Strategy:  "Cycle Count Reversal",
	},
	{
		Stock:     "MSFT",
		Type:      "Mean Reversion",
		Price:     "$428.74",
		Change:    "+0.67%",
		RSI:       "63.8",
		RSIStatus: "NEUTRAL",
		News:      "https://www.cnbc.com/quotes/MSFT",
		Chart:     "https://www.tradingview.com/chart/?symbol=MSFT",
		Time:      "10:15 AM",
		Strategy:  "Mean Reversion",
	},
	{
		Stock:     "NVDA",
		Type:      "Pattern Formation",
		Price:     "$131.26",
		Change:    "+2.35%",
		RSI:       "71.2",
		RSIStatus: "OVERBOUGHT",
		News:      "https://www.cnbc.com/quotes/NVDA",
		Chart:     "https://www.tradingview.com/chart/?symbol=NVDA",
		Time:      "10:30 AM",
		Strategy:  "Pattern Formation",
	},
	{
		Stock:     "AMZN",
		Type:      "Fundamental Picks (Earnings Season focused)",
		Price:     "$186.40",
		Change:    "+0.28%",
		RSI:       "52.9",
		RSIStatus: "NEUTRAL",
		News:      "https://www.cnbc.com/quotes/AMZN",
		Chart:     "https://www.tradingview.com/chart/?symbol=AMZN",
		Time:      "10:45 AM",
		Strategy:  "Fundamental Picks",
	},
}

// Catalog returns the fixed feed for a market, nil for unknown markets.
func Catalog(market string) []types.AlertRecord {
	switch market {
	case types.MarketIndia:
		return indiaAlerts
	case types.MarketUS:
		return usAlerts
	}
	return nil
}
