package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lensfolio/lensfolio/internal/app"
	"github.com/lensfolio/lensfolio/internal/cachemanager"
	"github.com/lensfolio/lensfolio/internal/config"
	"github.com/lensfolio/lensfolio/internal/creatorapi"
	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/photo"
	"github.com/lensfolio/lensfolio/internal/registration"
	"github.com/lensfolio/lensfolio/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is where a default config is written when none exists.
const localConfigPath = ".lensfolio/config.yaml"

// envPrefix prefixes environment overrides, e.g. LENSFOLIO_SERVER_BASE_URL.
const envPrefix = "LENSFOLIO"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:   "lensfolio",
	Short: "Register as a photographer or editor from the terminal",
	Long: `A terminal form for registering as a creator: pick photographer or editor,
fill in your profile, choose the services you offer with a price per session,
add portfolio links and payment methods, and attach a profile photo.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/lensfolio/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also LENSFOLIO_DEBUG=1)")
	rootCmd.PersistentFlags().String("server", "",
		"registration service base URL")
	rootCmd.Flags().StringP("type", "t", "",
		"creator type selected on start (photographer or editor)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.base_url", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("form.creator_type", rootCmd.Flags().Lookup("type"))
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = findConfig()
	}
	cfg, cfgErr = loadConfig(viper.GetViper(), path)
}

// findConfig returns the first existing config file.
// Lookup order:
// 1. .lensfolio/config.yaml (current directory)
// 2. ~/.config/lensfolio/config.yaml (user config)
//
// When neither exists a default is written to .lensfolio/config.yaml. An
// empty result means running on defaults alone.
func findConfig() string {
	if _, err := os.Stat(localConfigPath); err == nil {
		return localConfigPath
	}
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".config", "lensfolio", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return userPath
		}
	}
	if err := config.WriteDefaultConfig(localConfigPath); err != nil {
		return ""
	}
	return localConfigPath
}

// loadConfig layers defaults, the config file at path and LENSFOLIO_*
// environment variables, then validates the result.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	c := config.Defaults()
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// setDefaults registers every scalar key so environment overrides apply
// even when the config file omits the key.
func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("server.register_path", d.Server.RegisterPath)
	v.SetDefault("server.upload_path", d.Server.UploadPath)
	v.SetDefault("form.creator_type", d.Form.CreatorType)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.show_preview", d.UI.ShowPreview)
	v.SetDefault("ui.show_help", d.UI.ShowHelp)
	v.SetDefault("photo.preview_width", d.Photo.PreviewWidth)
	v.SetDefault("photo.watch", d.Photo.Watch)
	v.SetDefault("photo.watch_debounce", d.Photo.WatchDebounce)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// setupLogging enables the debug log when --debug or LENSFOLIO_DEBUG is
// set. LENSFOLIO_LOG overrides the log path.
func setupLogging(prefix string) (func(), error) {
	debug := os.Getenv("LENSFOLIO_DEBUG") != "" || debugFlag
	if !debug {
		return func() {}, nil
	}
	logPath := os.Getenv("LENSFOLIO_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}

	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "lensfolio starting", "version", version, "logPath", logPath,
		"config", viper.ConfigFileUsed())
	return cleanup, nil
}

// services bundles everything built from the configuration.
type services struct {
	tracer    *tracing.Provider
	submitter *registration.Submitter
}

func newServices(c config.Config) (*services, error) {
	provider, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	client := creatorapi.New(c.Server.BaseURL,
		creatorapi.WithTimeout(c.Server.Timeout),
		creatorapi.WithPaths(c.Server.RegisterPath, c.Server.UploadPath),
		creatorapi.WithTracer(provider.Tracer()),
	)
	return &services{
		tracer:    provider,
		submitter: registration.NewSubmitter(client, registration.WithTracer(provider.Tracer())),
	}, nil
}

func (s *services) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.tracer.Shutdown(ctx); err != nil {
		log.Warn(log.CatConfig, "tracing shutdown", "error", err)
	}
}

func runApp(_ *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	cleanup, err := setupLogging("lensfolio")
	if err != nil {
		return err
	}
	defer cleanup()

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctrl := registration.New(cfg.Catalog, registration.WithCreatorType(cfg.CreatorType()))
	previews := cachemanager.NewInMemoryCacheManager[string, *photo.Preview](
		"photo-previews", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	decoder := photo.NewDecoder(cfg.Photo.PreviewWidth, previews)

	model := app.New(cfg, ctrl, svc.submitter, decoder)
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()

	// Clean up watcher resources held by the last model state.
	if fm, ok := final.(app.Model); ok {
		model = fm
	}
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
