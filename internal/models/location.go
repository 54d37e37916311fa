// internal/models/location.go
package models

// Country carries the currency and wage statistics used to scale salaries.
// USDExchangeRate is local currency units per USD.
type Country struct {
	Code            string  `json:"code" db:"code"`
	Slug            string  `json:"slug" db:"slug"`
	Name            string  `json:"name" db:"name"`
	Flag            string  `json:"flag" db:"flag"`
	Currency        string  `json:"currency" db:"currency"`
	CurrencySymbol  string  `json:"currencySymbol" db:"currency_symbol"`
	USDExchangeRate float64 `json:"usdExchangeRate" db:"usd_exchange_rate"`
	OECDAvgWage     float64 `json:"oecdAvgWage" db:"oecd_avg_wage"`
	GDPPerCapita    float64 `json:"gdpPerCapita" db:"gdp_per_capita"`
}

// City is a metro area. COLMultiplier is its cost of living relative to the country average.
type City struct {
	Slug          string  `json:"slug" db:"slug"`
	Name          string  `json:"name" db:"name"`
	CountryCode   string  `json:"countryCode" db:"country_code"`
	Population    int64   `json:"population" db:"population"`
	IsCapital     bool    `json:"isCapital" db:"is_capital"`
	IsTechHub     bool    `json:"isTechHub" db:"is_tech_hub"`
	COLMultiplier float64 `json:"colMultiplier" db:"col_multiplier"`
}

// BigMacPrice is the price of one Big Mac in a country.
type BigMacPrice struct {
	CountryCode string  `json:"countryCode" db:"country_code"`
	LocalPrice  float64 `json:"localPrice" db:"local_price"`
	USDPrice    float64 `json:"usdPrice" db:"usd_price"`
}
