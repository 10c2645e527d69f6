package cli

import (
	"io"
	"io/fs"
	"strings"

	"github.com/forecast-ops/job-tracker/internal/client"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	serverKey = "service.server"
	tokenKey  = "service.token"
)

type GlobalOptions struct {
	ServerUrl      string
	Token          string
	ConfigFilePath string

	out io.Writer
	err io.Writer
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: client.DefaultConfigPath(),
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the server (env TRACKER_SERVER_URL)")
	fs.StringVarP(&o.Token, "token", "t", o.Token, "Bearer token (env TRACKER_TOKEN)")
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the client configuration file")
}

// Complete resolves the server url and token from flags, environment and the
// config file, in that order of precedence.
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	o.out = cmd.OutOrStdout()
	o.err = cmd.ErrOrStderr()

	v := viper.New()
	v.SetDefault(serverKey, client.DefaultServer)
	v.SetConfigFile(o.ConfigFilePath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv(serverKey, "TRACKER_SERVER_URL"); err != nil {
		return err
	}
	if err := v.BindEnv(tokenKey, "TRACKER_TOKEN"); err != nil {
		return err
	}
	if err := v.BindPFlag(serverKey, cmd.Flags().Lookup("server-url")); err != nil {
		return err
	}
	if err := v.BindPFlag(tokenKey, cmd.Flags().Lookup("token")); err != nil {
		return err
	}

	// a missing config file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return errors.Wrapf(err, "reading config %s", o.ConfigFilePath)
	}

	o.ServerUrl = v.GetString(serverKey)
	o.Token = v.GetString(tokenKey)
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	return o.config().Validate()
}

func (o *GlobalOptions) config() *client.Config {
	cfg := client.NewDefault()
	cfg.Service.Server = o.ServerUrl
	cfg.Service.Token = o.Token
	return cfg
}

func (o *GlobalOptions) Client() (*client.Client, error) {
	return client.NewFromConfig(o.config())
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}
