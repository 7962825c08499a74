package cmd

import (
	"github.com/aws/aws-sdk-go-v2/aws/external"
	"github.com/pkg/errors"
	"github.com/rampart/rampart/auth"
	"github.com/rampart/rampart/core"
	"github.com/rampart/rampart/graph/reconciler"
	"github.com/rampart/rampart/httpclient"
	"github.com/rampart/rampart/provider/fastly"
	"github.com/rampart/rampart/provider/sigsci"
	"github.com/rampart/rampart/resource"
	encjson "github.com/rampart/rampart/resource/encoding/json"
	"github.com/rampart/rampart/storage"
	"github.com/rampart/rampart/storage/dynamodb"
	"github.com/rampart/rampart/storage/kvbackend"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newApp wires up the application from the command's flags. The returned
// function releases the state backend and flushes logs; it must be called
// before exiting.
func newApp(cmd *cobra.Command) (*core.App, func(), error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}

	reg := &resource.Registry{}
	fastly.Register(reg)
	sigsci.Register(reg)

	backend, closeBackend, err := newBackend(cmd)
	if err != nil {
		return nil, nil, err
	}

	state := &storage.KV{
		Backend: backend,
		Codec:   &encjson.Encoder{Registry: reg},
	}

	app := &core.App{
		Logger:   logger,
		Registry: reg,
		State:    state,
		Reconciler: &reconciler.Reconciler{
			State:  state,
			Auth:   auth.Env{},
			HTTP:   &httpclient.Client{UserAgent: "rampart/" + Version},
			Logger: logger.Named("reconciler"),
		},
	}

	done := func() {
		closeBackend()
		_ = logger.Sync()
	}
	return app, done, nil
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func newBackend(cmd *cobra.Command) (storage.KVBackend, func(), error) {
	table, err := cmd.Flags().GetString("state-dynamodb-table")
	if err != nil {
		return nil, nil, err
	}
	file, err := cmd.Flags().GetString("state-file")
	if err != nil {
		return nil, nil, err
	}

	if table != "" {
		if file != "" {
			return nil, nil, errors.New("cannot combine state-file with state-dynamodb-table")
		}
		cfg, err := external.LoadDefaultAWSConfig()
		if err != nil {
			return nil, nil, errors.Wrap(err, "load aws config")
		}
		return dynamodb.New(cfg, table), func() {}, nil
	}

	bolt, err := kvbackend.NewBolt(file)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open state database")
	}
	return bolt, func() { _ = bolt.Close() }, nil
}
