package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skyexpress/courier/internal/server"
	"github.com/skyexpress/courier/pkg/pickup"
	"github.com/skyexpress/courier/pkg/tracking"
	"github.com/skyexpress/courier/pkg/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the courier HTTP API",
	Long: `Start the JSON API backing the website: pickup-request submission,
public tracking lookups and the basic-auth admin endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		if listenAddr == "" {
			listenAddr = viper.GetString("server.listen")
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		// The server returns the deep link to the browser; opening it is
		// the visitor's job.
		pipeline := pickup.New(pipelineConfig(db, pickup.NopOpener{}))
		store := tracking.NewStore(db)
		notifier := webhook.NewNotifier(viper.GetString("webhook.url"))

		srv := server.New(pipeline, store, notifier,
			viper.GetString("server.username"),
			viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from config, :8080)")
}
