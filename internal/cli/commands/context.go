package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/JonMunkholm/csv2sql/internal/config"
)

type configKey struct{}

// envAnnotation marks a flag that overrides an environment setting.
const envAnnotation = "csv2sql_env"

// WithConfig stores cfg for the commands run under ctx.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom returns the configuration stored by WithConfig, or the
// defaults when none was stored.
func ConfigFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg, err := config.LoadFrom(func(string) string { return "" })
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// BindEnv makes flag an override for the environment variable env.
func BindEnv(fs *pflag.FlagSet, flag, env string) {
	_ = fs.SetAnnotation(flag, envAnnotation, []string{env})
}

// EnvOverrides collects the values of every changed flag bound with BindEnv.
func EnvOverrides(fs *pflag.FlagSet) map[string]string {
	out := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		if env, ok := f.Annotations[envAnnotation]; ok && len(env) == 1 {
			out[env[0]] = f.Value.String()
		}
	})
	return out
}

// openInput opens the named file, or stdin for no argument and "-".
// An interactive stdin is refused so the command does not appear to hang.
func openInput(in io.Reader, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, "", fmt.Errorf("no input: pass a file or pipe data on stdin")
		}
		return io.NopCloser(in), "stdin", nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}
