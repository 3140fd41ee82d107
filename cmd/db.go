package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/skyexpress/courier/internal/utils"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the courier database",
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")
		path, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", path)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		fmt.Println("--> Starting interactive shell... (Ctrl+D to exit)")
		c := exec.Command(sqlitePath, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

// pathCmd represents the path command
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the resolved database path",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := rootCmd.PersistentFlags().GetString("dbpath")
		path, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.AddCommand(pathCmd)
}
