package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind               string
	finalCategory      string
	finalQuestion      string
	generationEndpoint string
	generationKey      string
	generationModel    string
	hostPassword       string
	port               int
	prefix             string
	profile            bool
	questionsFile      string
	sessionTimeout     time.Duration
	tlsCert            string
	tlsKey             string
	verbose            bool
	version            bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.hostPassword == "" {
		return errors.New("--host-password must not be empty")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// aiEnabled reports whether the question-generation service is configured.
// Its absence only disables the regenerate action; normal play is unaffected.
func (c *Config) aiEnabled() bool {
	return c.generationEndpoint != "" && c.generationKey != ""
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIVIANIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "trivianight",
		Short:         "An authoritative game server for hosting live trivia-board nights over websockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TRIVIANIGHT_BIND)")
	fs.StringVar(&cfg.finalCategory, "final-category", "TECHNOLOGY", "category of the final-round question (env: TRIVIANIGHT_FINAL_CATEGORY)")
	fs.StringVar(&cfg.finalQuestion, "final-question", "This programming language was created by Brendan Eich in 1995.", "text of the final-round question (env: TRIVIANIGHT_FINAL_QUESTION)")
	fs.StringVar(&cfg.generationEndpoint, "generation-endpoint", "", "chat-completions endpoint used to regenerate question sets (env: TRIVIANIGHT_GENERATION_ENDPOINT)")
	fs.StringVar(&cfg.generationKey, "generation-key", "", "api key for the generation endpoint (env: TRIVIANIGHT_GENERATION_KEY)")
	fs.StringVar(&cfg.generationModel, "generation-model", "gpt-4o-mini", "model requested from the generation endpoint (env: TRIVIANIGHT_GENERATION_MODEL)")
	fs.StringVar(&cfg.hostPassword, "host-password", "trivia2025", "shared secret required to create and host sessions (env: TRIVIANIGHT_HOST_PASSWORD)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TRIVIANIGHT_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TRIVIANIGHT_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: TRIVIANIGHT_PROFILE)")
	fs.StringVarP(&cfg.questionsFile, "questions-file", "q", "trivia_questions.csv", "csv file holding the question board (env: TRIVIANIGHT_QUESTIONS_FILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 24*time.Hour, "time before stale game sessions expire (env: TRIVIANIGHT_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: TRIVIANIGHT_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: TRIVIANIGHT_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TRIVIANIGHT_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: TRIVIANIGHT_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("trivianight v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
