package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/redisval"
	rvlogrus "github.com/unkn0wn-root/redisval/log/logrus"
	"github.com/unkn0wn-root/redisval/serializer"
)

const (
	keyAddr       = "addr"
	keyPassword   = "password"
	keyDB         = "db"
	keySerializer = "serializer"
	keyInput      = "input"
	keyOutput     = "output"
	keyVerbose    = "verbose"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	v     *viper.Viper
	rdb   *redis.Client
	log   *logrus.Logger
	hooks []redis.Hook // added to the client after it is built

	stored serializer.Serializer // format of values inside Redis
	input  serializer.Serializer // format of VALUE arguments
	output serializer.Serializer // format printed to stdout
}

func setupFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String(keyAddr, "localhost:6379", "Redis address (host:port)")
	f.String(keyPassword, "", "Redis password")
	f.Int(keyDB, 0, "Redis database number")
	f.String(keySerializer, serializer.JSONName, "serializer of values stored in Redis ("+strings.Join(serializer.Names(), ", ")+")")
	f.String(keyInput, serializer.JSONName, "serializer of VALUE arguments")
	f.String(keyOutput, serializer.JSONName, "serializer used to print values")
	f.BoolP(keyVerbose, "v", false, "enable debug logging")
}

// load reads .env files and environment variables (REDISVAL_ADDR, ...) on top
// of the command flags, then builds the client and serializers.
func (a *app) load(cmd *cobra.Command) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	a.v.SetEnvPrefix("redisval")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	var err error
	if a.stored, err = serializer.Lookup(a.v.GetString(keySerializer)); err != nil {
		return fmt.Errorf("--%s: %w", keySerializer, err)
	}
	if a.input, err = serializer.Lookup(a.v.GetString(keyInput)); err != nil {
		return fmt.Errorf("--%s: %w", keyInput, err)
	}
	if a.output, err = serializer.Lookup(a.v.GetString(keyOutput)); err != nil {
		return fmt.Errorf("--%s: %w", keyOutput, err)
	}

	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(logrus.WarnLevel)
	if a.v.GetBool(keyVerbose) {
		a.log.SetLevel(logrus.DebugLevel)
	}

	a.rdb = redis.NewClient(&redis.Options{
		Addr:     a.v.GetString(keyAddr),
		Password: a.v.GetString(keyPassword),
		DB:       a.v.GetInt(keyDB),
	})
	for _, h := range a.hooks {
		a.rdb.AddHook(h)
	}
	a.log.WithFields(logrus.Fields{
		"addr":       a.v.GetString(keyAddr),
		"serializer": a.stored.Name(),
	}).Debug("client configured")
	return nil
}

// store returns a Store of untyped values encoded with the configured serializer.
func (a *app) store() (*redisval.Store[any], error) {
	return redisval.NewStore[any](redisval.Options[any]{
		Client:     a.rdb,
		Serializer: a.stored,
		Logger:     rvlogrus.New(a.log),
	})
}

// parse reads a VALUE argument with the input serializer.
func (a *app) parse(s string) (any, error) {
	var v any
	if err := a.input.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("parse value as %s: %w", a.input.Name(), err)
	}
	return v, nil
}

func (a *app) print(cmd *cobra.Command, v any) error {
	b, err := a.output.Marshal(v)
	if err != nil {
		return fmt.Errorf("render as %s: %w", a.output.Name(), err)
	}
	out := strings.TrimRight(string(b), "\n")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func (a *app) close() error {
	if a.rdb == nil {
		return nil
	}
	return a.rdb.Close()
}
