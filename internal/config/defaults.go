package config

import "strings"

const (
	defaultAppEnv         = "dev"
	defaultAppLogLevel    = "info"
	defaultAppLogFormat   = "text"
	defaultAppHTTPAddr    = ":8080"
	defaultCoinGeckoURL   = "https://api.coingecko.com/api/v3"
	defaultCryptoCompURL  = "https://min-api.cryptocompare.com"
	defaultEurostatURL    = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data"
	defaultWorldBankURL   = "https://api.worldbank.org/v2"
	defaultSourceTimeout  = 15
	defaultCurrency       = "usd"
	defaultQuoteSymbol    = "USD"
	defaultBreakerTrips   = 5
	defaultBreakerCool    = 30
	defaultCatalogLimit   = 50
	defaultProbeLimit     = 10
	defaultProbeDelayMS   = 120
	defaultPacer          = "fixed"
	defaultDetailWindow   = 30
	defaultCountriesDS    = "nama_10_gdp"
	defaultChartWidth     = 960
	defaultChartHeight    = 420
	defaultChartEMAPeriod = 20
)

// Default returns a configuration with every default applied, used when no
// config file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults(nil)
	return &cfg
}

func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Sources.applyDefaults(keys)
	c.Breaker.applyDefaults(keys)
	c.Catalog.applyDefaults(keys)
	c.Detail.applyDefaults(keys)
	c.Economy.applyDefaults(keys)
	c.Chart.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_format", &a.LogFormat, defaultAppLogFormat),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (s *SourcesConfig) applyDefaults(keys keySet) {
	s.CoinGecko.applyDefaults(keys, "sources.coingecko", defaultCoinGeckoURL, defaultCurrency)
	s.CryptoCompare.applyDefaults(keys, "sources.cryptocompare", defaultCryptoCompURL, defaultQuoteSymbol)
	s.Eurostat.applyDefaults(keys, "sources.eurostat", defaultEurostatURL, "")
	s.WorldBank.applyDefaults(keys, "sources.worldbank", defaultWorldBankURL, "")
}

func (s *SourceConfig) applyDefaults(keys keySet, prefix, baseURL, currency string) {
	defs := []fieldDefault{
		stringFieldDefault(prefix+".base_url", &s.BaseURL, baseURL),
		intFieldDefault(prefix+".timeout_seconds", &s.TimeoutSeconds, defaultSourceTimeout),
	}
	if currency != "" {
		defs = append(defs, stringFieldDefault(prefix+".currency", &s.Currency, currency))
	}
	applyFieldDefaults(keys, defs...)
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
}

func (b *BreakerConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		intFieldDefault("breaker.threshold", &b.Threshold, defaultBreakerTrips),
		intFieldDefault("breaker.cooldown_seconds", &b.CooldownSeconds, defaultBreakerCool),
	)
}

func (c *CatalogConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		intFieldDefault("catalog.limit", &c.Limit, defaultCatalogLimit),
		intFieldDefault("catalog.probe_limit", &c.ProbeLimit, defaultProbeLimit),
		intFieldDefault("catalog.probe_delay_ms", &c.ProbeDelayMS, defaultProbeDelayMS),
		stringFieldDefault("catalog.pacer", &c.Pacer, defaultPacer),
	)
	c.Pacer = strings.ToLower(strings.TrimSpace(c.Pacer))
}

func (d *DetailConfig) applyDefaults(keys keySet) {
	// 0 is a legal value (max), so only an absent key gets the default.
	if !keys.isSet("detail.default_window") {
		d.DefaultWindow = defaultDetailWindow
	}
}

func (e *EconomyConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("economy.countries_dataset", &e.CountriesDataset, defaultCountriesDS),
	)
}

func (c *ChartConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		intFieldDefault("chart.width", &c.Width, defaultChartWidth),
		intFieldDefault("chart.height", &c.Height, defaultChartHeight),
		intFieldDefault("chart.ema_period", &c.EMAPeriod, defaultChartEMAPeriod),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return strings.TrimSpace(*target) == "" },
		apply: func() { *target = def },
	}
}

func intFieldDefault(key string, target *int, def int) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return *target <= 0 },
		apply: func() { *target = def },
	}
}
