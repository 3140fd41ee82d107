package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/skyexpress/courier/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	  ___ ___  _   _ _ __(_) ___ _ __
	 / __/ _ \| | | | '__| |/ _ \ '__|
	| (_| (_) | |_| | |  | |  __/ |
	 \___\___/ \__,_|_|  |_|\___|_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "courier",
	Short: "Pickup requests and shipment tracking for the SKY EXPRESS courier service.",
	Long: LOGO + `courier handles the SKY EXPRESS pickup-request flow (compose, de-duplicate
and hand off to WhatsApp) and the shipment tracking board, from the command
line or as a small HTTP service.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.courier.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("dbpath", "", "", "Path to SQLite DB file (default is $HOME/.config/courier/courier.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".courier")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.courier.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("business.name", "SKY EXPRESS")
	viper.SetDefault("business.fallback_phone", "+91 81215 92299")
	viper.SetDefault("whatsapp.number", "918121592299")
	viper.SetDefault("whatsapp.host", "wa.me")
	viper.SetDefault("phone.country_code", "91")
	viper.SetDefault("pickup.cooldown_ms", 3000)
	viper.SetDefault("pickup.duplicate_window_min", 5)
	viper.SetDefault("webhook.url", "")
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.username", "")
	viper.SetDefault("server.password", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
