package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/unkn0wn-root/redisval/serializer"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{v: viper.New()})
}

func newRootCmdFor(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "redisval",
		Short:        "Read and write typed values in Redis",
		SilenceUsage: true,
	}
	setupFlags(root)

	// commands that talk to Redis; the client is closed even when RunE fails
	withClient := func(c *cobra.Command) *cobra.Command {
		run := c.RunE
		c.PreRunE = func(cmd *cobra.Command, _ []string) error { return a.load(cmd) }
		c.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := a.close(); err == nil {
					err = cerr
				}
			}()
			return run(cmd, args)
		}
		return c
	}

	root.AddCommand(
		withClient(newGetCmd(a)),
		withClient(newSetCmd(a)),
		withClient(newJSONGetCmd(a)),
		withClient(newJSONSetCmd(a)),
		newSerializersCmd(),
		newVersionCmd(),
	)
	return root
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Get a value and print it with the output serializer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			v, ok, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "(nil)")
				return err
			}
			return a.print(cmd, v)
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	var ttl time.Duration
	c := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Parse a value with the input serializer and store it with the stored serializer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.parse(args[1])
			if err != nil {
				return err
			}
			s, err := a.store()
			if err != nil {
				return err
			}
			if err := s.Set(cmd.Context(), args[0], v, ttl); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return err
		},
	}
	c.Flags().DurationVar(&ttl, "ttl", 0, "expiry, 0 = none")
	return c
}

func newJSONGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "json-get [key] [path]",
		Short: "JSON.GET a value (path defaults to $) and print it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			s, err := a.store()
			if err != nil {
				return err
			}
			v, ok, err := s.JSONGet(cmd.Context(), args[0], path)
			if err != nil {
				return err
			}
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "(nil)")
				return err
			}
			return a.print(cmd, v)
		},
	}
}

func newJSONSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "json-set [key] [path] [value]",
		Short: "Parse a value with the input serializer and JSON.SET it at path",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.parse(args[2])
			if err != nil {
				return err
			}
			s, err := a.store()
			if err != nil {
				return err
			}
			if err := s.JSONSet(cmd.Context(), args[0], args[1], v); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return err
		},
	}
}

func newSerializersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serializers",
		Short: "List registered serializers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range serializer.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of redisval",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "redisval v%s\n", version)
		},
	}
}
