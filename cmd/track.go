package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skyexpress/courier/internal/utils"
	"github.com/skyexpress/courier/pkg/tracking"
	"github.com/skyexpress/courier/pkg/webhook"
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Look up and manage shipment tracking statuses",
}

var trackGetCmd = &cobra.Command{
	Use:   "get <tracking-id>",
	Short: "Look up the status of a shipment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		store := tracking.NewStore(db)
		status, found := store.Lookup(context.Background(), args[0])
		if !found {
			fmt.Printf("No shipment found for %s\n", tracking.NormalizeID(args[0]))
			return nil
		}
		fmt.Printf("%s: %s\n", tracking.NormalizeID(args[0]), status)
		return nil
	},
}

var trackSaveCmd = &cobra.Command{
	Use:   "save <tracking-id> <status>",
	Short: "Create or update a shipment status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := lockDB()
		if err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		store := tracking.NewStore(db)
		id, err := store.Save(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Tracking ID %s updated successfully!\n", id)
		notifyAdminWebhook(webhook.Event{Action: "saved", TrackingID: id, Status: args[1]})
		return nil
	},
}

var trackDeleteCmd = &cobra.Command{
	Use:   "delete <tracking-id>",
	Short: "Remove a shipment from the tracking board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lock, err := lockDB()
		if err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		store := tracking.NewStore(db)
		id := tracking.NormalizeID(args[0])
		if err := store.Delete(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Tracking ID %s removed.\n", id)
		notifyAdminWebhook(webhook.Event{Action: "deleted", TrackingID: id})
		return nil
	},
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all shipments on the tracking board",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		store := tracking.NewStore(db)
		data, err := store.List(context.Background())
		if err != nil {
			return err
		}
		if len(data) == 0 {
			fmt.Println("No shipments on the tracking board.")
			return nil
		}

		ids := make([]string, 0, len(data))
		for id := range data {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TRACKING ID\tSTATUS\t")
		for _, id := range ids {
			fmt.Fprintf(w, "%s\t%s\t\n", id, data[id])
		}
		w.Flush()
		return nil
	},
}

// notifyAdminWebhook fires the configured webhook, if any. The mutation has
// already committed, so failures only get logged.
func notifyAdminWebhook(ev webhook.Event) {
	notifier := webhook.NewNotifier(viper.GetString("webhook.url"))
	if !notifier.Enabled() {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := notifier.Notify(ctx, ev); err != nil {
		utils.Log.Warnf("webhook notification failed: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.AddCommand(trackGetCmd)
	trackCmd.AddCommand(trackSaveCmd)
	trackCmd.AddCommand(trackDeleteCmd)
	trackCmd.AddCommand(trackListCmd)
}
