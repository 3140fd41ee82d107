package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyexpress/courier/pkg/pickup"
)

// pickupCmd represents the pickup command
var pickupCmd = &cobra.Command{
	Use:   "pickup",
	Short: "Submit a pickup request and hand it off to WhatsApp",
	Long: `Submit a pickup request. The request is validated, the phone number is
normalized, identical resubmissions are suppressed, and the composed message
is handed off as a WhatsApp deep link (opened in the browser with --open,
printed otherwise).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		phoneRaw, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")
		address, _ := cmd.Flags().GetString("address")
		service, _ := cmd.Flags().GetString("service")
		notes, _ := cmd.Flags().GetString("notes")
		open, _ := cmd.Flags().GetBool("open")

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

		var opener pickup.Opener = pickup.NopOpener{}
		if open {
			opener = pickup.BrowserOpener{}
		}
		cfg := pipelineConfig(db, opener)
		cfg.SubmitDelay = 1 // no UI to pace on the command line

		pipeline := pickup.New(cfg)
		res, err := pipeline.Submit(context.Background(), pickup.Request{
			Name:     name,
			PhoneRaw: phoneRaw,
			Email:    email,
			Address:  address,
			Service:  service,
			Notes:    notes,
		})

		switch {
		case err == nil:
			fmt.Println(res.Message)
			fmt.Println()
			if open {
				fmt.Println("WhatsApp opened. Please confirm and send the message.")
			} else {
				fmt.Println("Send it here:", res.URL)
			}
			return nil
		case errors.Is(err, pickup.ErrDuplicate):
			fmt.Println("You already sent this request recently. Our team will contact you shortly.")
			return nil
		case errors.Is(err, pickup.ErrCooldown):
			fmt.Println("Please wait a moment before sending another request.")
			return nil
		case errors.Is(err, pickup.ErrHandoff):
			fmt.Println("Unable to open WhatsApp. Please try again or call", pipeline.FallbackPhone())
			fmt.Println("Link:", res.URL)
			return nil
		default:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(pickupCmd)
	pickupCmd.Flags().String("name", "", "Customer name (required)")
	pickupCmd.Flags().String("phone", "", "Phone number, free-form (required)")
	pickupCmd.Flags().String("email", "", "Email address")
	pickupCmd.Flags().String("address", "", "Pickup address (required)")
	pickupCmd.Flags().String("service", "", "Service type, e.g. Domestic or International (required)")
	pickupCmd.Flags().String("notes", "", "Extra notes")
	pickupCmd.Flags().Bool("open", false, "Open the WhatsApp link in the browser")
}
