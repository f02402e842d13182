package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/storefront-tui/internal/app"
	"github.com/atomicstack/storefront-tui/internal/i18n"
	"github.com/atomicstack/storefront-tui/internal/money"
	"github.com/atomicstack/storefront-tui/internal/search"
	"github.com/atomicstack/storefront-tui/internal/shop"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Sources  Sources
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
	Demo    bool
}

// Sources records which files contributed to the configuration.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

const (
	envPrefix     = "STOREFRONT_"
	envConfigFile = "STOREFRONT_CONFIG"
	envEnvFile    = "STOREFRONT_ENV_FILE"

	defaultBaseURL        = "http://127.0.0.1:8000"
	defaultLocale         = "he"
	defaultEnvFile        = ".env"
	defaultRequestTimeout = shop.DefaultTimeout
	defaultBadgeInterval  = 30 * time.Second
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values layer
// as defaults < YAML file < .env file < environment < flags.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	envFile := lookupFlag(args, "env-file", envOrDefault(env, envEnvFile, defaultEnvFile))
	loadedEnvFile, err := mergeDotEnv(env, envFile)
	if err != nil {
		return Config{}, err
	}
	configFile := lookupFlag(args, "config", envOrDefault(env, envConfigFile, ""))
	k, err := loadLayers(configFile, env)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("storefront-tui", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configFile, "path to a YAML configuration file")
	fs.String("env-file", envFile, "path to a .env file (missing files are ignored)")
	baseURL := fs.String("base-url", k.String("base_url"), "storefront base URL")
	width := fs.Int("width", k.Int("width"), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", k.Int("height"), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", k.Bool("footer"), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", k.Bool("trace"), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", k.Bool("verbose"), "show background refresh problems in the status line")
	logFile := fs.String("log-file", k.String("log_file"), "path to the log file")
	locale := fs.String("locale", k.String("locale"), "message locale (he or en)")
	currency := fs.String("currency", k.String("currency"), "currency symbol shown with prices")
	debounce := fs.Duration("debounce", k.Duration("debounce"), "search debounce delay")
	requestTimeout := fs.Duration("request-timeout", k.Duration("request_timeout"), "per-request timeout")
	badgeInterval := fs.Duration("badge-interval", k.Duration("badge_interval"), "cart badge refresh interval (0 disables)")
	demo := fs.Bool("demo", k.Bool("demo"), "serve a demo storefront on loopback and connect to it")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			BaseURL:        *baseURL,
			Demo:           *demo,
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
			Verbose:        *verbose,
			Locale:         *locale,
			Currency:       *currency,
			Debounce:       *debounce,
			RequestTimeout: *requestTimeout,
			BadgeInterval:  *badgeInterval,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
			Demo:    *demo,
		},
		Sources: Sources{
			ConfigFile: configFile,
			EnvFile:    loadedEnvFile,
		},
		Flags: map[string]string{
			"baseURL":        *baseURL,
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"trace":          strconv.FormatBool(*trace),
			"verbose":        strconv.FormatBool(*verbose),
			"logFile":        *logFile,
			"locale":         *locale,
			"currency":       *currency,
			"debounce":       debounce.String(),
			"requestTimeout": requestTimeout.String(),
			"badgeInterval":  badgeInterval.String(),
			"demo":           strconv.FormatBool(*demo),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// loadLayers builds the koanf tree: defaults, then the YAML file, then any
// STOREFRONT_* variables.
func loadLayers(configFile string, env map[string]string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	defaults := map[string]interface{}{
		"base_url":        defaultBaseURL,
		"locale":          defaultLocale,
		"currency":        money.DefaultCurrency,
		"debounce":        search.DefaultDebounce.String(),
		"request_timeout": defaultRequestTimeout.String(),
		"badge_interval":  defaultBadgeInterval.String(),
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("config default %s: %w", key, err)
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	for name, value := range env {
		key, ok := envKey(name)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("config env %s: %w", name, err)
		}
	}
	return k, nil
}

// envKey maps STOREFRONT_BASE_URL to base_url. File-selection variables are
// not configuration keys.
func envKey(name string) (string, bool) {
	if name == envConfigFile || name == envEnvFile {
		return "", false
	}
	rest, ok := strings.CutPrefix(name, envPrefix)
	if !ok || rest == "" {
		return "", false
	}
	return strings.ToLower(rest), true
}

// mergeDotEnv adds variables from path that the environment does not
// already define. A missing file is not an error.
func mergeDotEnv(env map[string]string, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading env file %s: %w", path, err)
	}
	for key, value := range values {
		if _, ok := env[key]; !ok {
			env[key] = value
		}
	}
	return path, nil
}

// lookupFlag finds -name/--name in args without parsing the full set. It
// runs before the flag set exists so the file layers can supply defaults.
func lookupFlag(args []string, name, fallback string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == arg {
			continue
		}
		if value, ok := strings.CutPrefix(trimmed, name+"="); ok {
			return value
		}
		if trimmed == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return fallback
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the configuration can start the program.
func Validate(cfg Config) error {
	a := cfg.App
	if !a.Demo {
		if strings.TrimSpace(a.BaseURL) == "" {
			return errors.New("base URL is required unless --demo is set")
		}
		if _, err := shop.Resolve(a.BaseURL); err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
	}
	if a.Locale != "" && !i18n.Supported(a.Locale) {
		return fmt.Errorf("unsupported locale %q", a.Locale)
	}
	if a.Width < 0 || a.Height < 0 {
		return fmt.Errorf("width and height must be >= 0 (got %dx%d)", a.Width, a.Height)
	}
	for name, d := range map[string]time.Duration{
		"debounce":        a.Debounce,
		"request timeout": a.RequestTimeout,
		"badge interval":  a.BadgeInterval,
	} {
		if d < 0 {
			return fmt.Errorf("%s must be >= 0 (got %s)", name, d)
		}
	}
	return nil
}
