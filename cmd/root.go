package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lukman83/kidkazz-storefront/config"
	"github.com/lukman83/kidkazz-storefront/internal/aliexpress"
	"github.com/lukman83/kidkazz-storefront/internal/httputil"
	"github.com/lukman83/kidkazz-storefront/internal/platform"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "kidkazz",
	Short: "KidKazz Storefront - affiliate catalog CLI, REST API & MCP server",
	Long:  "A Go-based CLI tool and server that fetches affiliate product listings and reshapes them for the storefront.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("catalog", platform.DefaultCatalog, "Catalog to query")
	rootCmd.PersistentFlags().String("currency", "", "Target currency (default from $STOREFRONT_CURRENCY or USD)")
	rootCmd.PersistentFlags().String("language", "", "Target language (default from $STOREFRONT_LANGUAGE or EN)")
	rootCmd.PersistentFlags().String("country", "", "Ship-to country (default from $STOREFRONT_COUNTRY or US)")
	rootCmd.PersistentFlags().String("proxy-mode", "", "Proxy mode: direct, custom")
	rootCmd.PersistentFlags().String("proxy-file", "", "Path to proxy list file")
	rootCmd.PersistentFlags().Int("retries", -1, "Retries for network errors and 5xx (default from $STOREFRONT_MAX_RETRIES or 0)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("currency"); v != "" {
		cfg.Currency = strings.ToUpper(v)
	}
	if v, _ := rootCmd.PersistentFlags().GetString("language"); v != "" {
		cfg.Language = strings.ToUpper(v)
	}
	if v, _ := rootCmd.PersistentFlags().GetString("country"); v != "" {
		cfg.Country = strings.ToUpper(v)
	}
	if v, _ := rootCmd.PersistentFlags().GetString("proxy-mode"); v != "" {
		cfg.ProxyMode = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("proxy-file"); v != "" {
		cfg.ProxyFile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetInt("retries"); v >= 0 {
		cfg.MaxRetries = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	slog.SetDefault(newLogger(cfg.LogLevel, cfg.LogFormat))
}

// newLogger writes to stderr so stdout stays clean for JSON output and
// the MCP stdio transport.
func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// buildTransport creates the rate-limited, optionally proxied transport.
func buildTransport() (*httputil.Transport, error) {
	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	limiter := rate.NewLimiter(limit, max(cfg.RateBurst, 1))

	var proxyRotator *httputil.ProxyRotator
	switch cfg.ProxyMode {
	case "custom":
		providers, err := httputil.LoadProxyFile(cfg.ProxyFile)
		if err != nil {
			return nil, err
		}
		proxyRotator = httputil.NewProxyRotator(providers)
		if proxyRotator == nil {
			return nil, fmt.Errorf("proxy file %s lists no proxies", cfg.ProxyFile)
		}
		slog.Info("proxy rotation enabled", "proxies", proxyRotator.Len())
	case "direct", "":
	default:
		return nil, fmt.Errorf("unknown proxy mode %q", cfg.ProxyMode)
	}

	return &httputil.Transport{
		Base:        httputil.NewBaseTransport(),
		UserAgent:   httputil.DefaultUserAgent,
		Proxy:       proxyRotator,
		RateLimiter: limiter,
	}, nil
}

// initPlatforms validates the credentials and registers the catalogs. It
// fails before any client exists when a credential is missing.
func initPlatforms() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	transport, err := buildTransport()
	if err != nil {
		return err
	}

	client, err := aliexpress.NewClient(credentials(), aliexpress.ClientOptions{
		Endpoint:   cfg.APIEndpoint,
		HTTPClient: httputil.NewHTTPClient(transport, cfg.HTTPTimeout),
		Locale:     defaultLocale(),
		MaxRetries: cfg.MaxRetries,
		Logger:     slog.Default(),
	})
	if err != nil {
		return err
	}
	platform.Register(platform.DefaultCatalog, aliexpress.NewCatalog(client, cfg.MaxConcurrent, nil))
	return nil
}

func credentials() aliexpress.Credentials {
	return aliexpress.Credentials{
		AppKey:       cfg.AppKey,
		Secret:       cfg.AppSecret,
		AppSignature: cfg.AppSignature,
		TrackingID:   cfg.TrackingID,
	}
}

func defaultLocale() platform.Locale {
	return platform.Locale{Currency: cfg.Currency, Language: cfg.Language, Country: cfg.Country}
}

func catalogFor(cmd *cobra.Command) (platform.Catalog, error) {
	name, _ := cmd.Flags().GetString("catalog")
	return platform.Get(name)
}
