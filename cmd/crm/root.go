package main

import (
	"os"

	"github.com/gartstein/crm/internal/brain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultAPIURL = "http://localhost:8080"

// app is shared by every subcommand once the root pre-run has built it.
type app struct {
	apiURL  string
	token   string
	verbose bool

	logger *zap.Logger
	api    *brain.Brain
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "crm",
		Short:         "Manage companies in the CRM",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", envOr("CRM_API_URL", defaultAPIURL), "companies API base URL")
	flags.StringVar(&a.token, "token", os.Getenv("CRM_API_TOKEN"), "bearer token for create, edit and delete")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log API calls to stderr")

	root.AddCommand(
		newHealthCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newCreateCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newLogoCmd(a),
	)
	return root
}

func (a *app) init() error {
	if a.verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		logger, err := cfg.Build()
		if err != nil {
			return err
		}
		a.logger = logger
	} else {
		a.logger = zap.NewNop()
	}

	client, err := brain.NewClient(a.apiURL,
		brain.WithToken(a.token),
		brain.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.api = brain.New(client)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
