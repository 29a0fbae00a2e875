// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, repair, reset, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/dose/internal/charm"
	"github.com/harperreed/dose/internal/config"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync dose data across devices",
	Long: `Sync dose data across devices using Charm Cloud.

Your data is E2E encrypted with your SSH key before upload.
Sync applies when the backend is charm:

  dose config set backend charm

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     dose sync link

  2. On other devices, link with the same Charm account:
     dose sync link

  3. Check sync status:
     dose sync status

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each write.`,
	Annotations: map[string]string{noStorage: "true"},
}

func charmCLI(args ...string) error {
	c := exec.Command("charm", args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := charmCLI("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")

		c, err := config.Load()
		if err != nil || c.GetBackend() != "charm" {
			fmt.Println("Run 'dose config set backend charm' to sync dose data.")
			return nil
		}

		client, err := charm.InitClient()
		if err != nil {
			color.Yellow("⚠ Could not open Charm store: %v", err)
			return nil
		}
		defer client.Close()

		if err := client.Sync(); err != nil {
			color.Yellow("⚠ Initial sync failed: %v", err)
		} else {
			color.Green("✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local dose data.
You can link again later with 'dose sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := charmCLI("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local dose data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Long: `Show current sync status including:
- Charm account info
- Local data counts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if c.GetBackend() != "charm" {
			color.Yellow("Backend is %s; sync is off", c.GetBackend())
			fmt.Println("\nRun 'dose config set backend charm' to enable sync.")
			return nil
		}

		client, err := charm.InitClient()
		if err != nil {
			color.Yellow("Charm client not initialized: %v", err)
			fmt.Println("\nRun 'dose sync link' to connect to Charm.")
			return nil
		}
		defer client.Close()

		id, err := client.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'dose sync link' to connect to Charm.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		fmt.Println()

		compounds, _ := client.ListCompounds()
		schedules, _ := client.GetSchedules()
		doses, _ := client.GetDoseHistory()

		color.Green("✓ Connected to Charm")
		fmt.Printf("  Compounds: %d\n", len(compounds))
		fmt.Printf("  Schedules: %d\n", len(schedules))
		fmt.Printf("  Doses: %d\n", len(doses))
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Delete all cloud backups and local data.

This is a DESTRUCTIVE operation. ALL dose data will be permanently deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all cloud backups and local dose data.")
		fmt.Print("Type 'wipe' to confirm: ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "wipe" {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Data wiped successfully")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair database corruption by checkpointing WAL, removing SHM files, checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing dose database...")
		result, err := kv.Repair(charm.DBName, force)

		if result.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local data and restore from Charm Cloud.

This is a destructive operation. All local data will be lost and restored from cloud.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm("This will DELETE all local dose data and restore from cloud.\nContinue? [y/N]: ") {
			fmt.Println("Canceled.")
			return nil
		}

		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.Green("✓ Local data reset and restored from cloud")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
