package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/palemoky/riddle-lobby/internal/config"
)

type flags struct {
	configPath  string
	server      string
	path        string
	secure      bool
	name        string
	createFlow  string
	metricsAddr string
	logDir      string
	debug       bool
	noSound     bool
}

// resolve builds the effective configuration: defaults, then the config
// file, then flags and RIDDLE_* environment variables.
func (f *flags) resolve(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", f.configPath, err)
		}
		cfg = loaded
	}

	if fs.Changed("server") {
		cfg.Server.Addr = f.server
	}
	if fs.Changed("path") {
		cfg.Server.Path = f.path
	}
	if fs.Changed("secure") {
		cfg.Server.Secure = f.secure
	}
	if fs.Changed("name") {
		cfg.Session.PlayerName = f.name
	}
	if fs.Changed("create-flow") {
		cfg.Session.CreateFlow = config.CreateFlow(f.createFlow)
	}
	if fs.Changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}
	if fs.Changed("log-dir") {
		cfg.Log.Dir = f.logDir
	}
	if fs.Changed("debug") {
		cfg.Log.Debug = f.debug
	}
	if fs.Changed("no-sound") {
		cfg.Sound.Enabled = !f.noSound
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newCmd(f *flags) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("RIDDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "riddle-lobby",
		Short:   "Terminal client for multiplayer riddle rooms.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file (env: RIDDLE_CONFIG)")
	fs.StringVarP(&f.server, "server", "s", "localhost:8001", "server host:port (env: RIDDLE_SERVER)")
	fs.StringVar(&f.path, "path", "/ws", "websocket path on the server (env: RIDDLE_PATH)")
	fs.BoolVar(&f.secure, "secure", false, "connect with wss (env: RIDDLE_SECURE)")
	fs.StringVarP(&f.name, "name", "n", "", "player name to prefill (env: RIDDLE_NAME)")
	fs.StringVar(&f.createFlow, "create-flow", string(config.CreateFlowInline), "when to ask for the player name: inline or name_first (env: RIDDLE_CREATE_FLOW)")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (env: RIDDLE_METRICS_ADDR)")
	fs.StringVar(&f.logDir, "log-dir", "", "directory for debug.log, default ~/.riddle-lobby (env: RIDDLE_LOG_DIR)")
	fs.BoolVarP(&f.debug, "debug", "d", false, "log at debug level (env: RIDDLE_DEBUG)")
	fs.BoolVar(&f.noSound, "no-sound", false, "disable sound cues (env: RIDDLE_NO_SOUND)")

	fs.VisitAll(func(fl *pflag.Flag) {
		_ = v.BindPFlag(fl.Name, fl)
		_ = v.BindEnv(fl.Name)
		if !fl.Changed && v.IsSet(fl.Name) {
			_ = fs.Set(fl.Name, fmt.Sprintf("%v", v.Get(fl.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("riddle-lobby v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
