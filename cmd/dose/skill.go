// ABOUTME: Install Claude Code skill for dose
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the dose skill for Claude Code.

This copies the skill definition to ~/.claude/skills/dose/
so Claude Code can use dose commands contextually.`,
	Annotations: map[string]string{noStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(home)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "dose", "SKILL.md")
}

func installSkill(home string) error {
	path := skillPath(home)

	fmt.Println("┌─────────────────────────────────────────────────────────────┐")
	fmt.Println("│               Dose Skill for Claude Code                    │")
	fmt.Println("└─────────────────────────────────────────────────────────────┘")
	fmt.Println()
	fmt.Println("This will install the dose skill, enabling Claude Code to:")
	fmt.Println()
	fmt.Println("  • Log doses as you take them")
	fmt.Println("  • Show what is due today and the dose calendar")
	fmt.Println("  • Manage compounds and schedules")
	fmt.Println("  • Report adherence and streaks")
	fmt.Println()
	fmt.Println("Destination:")
	fmt.Printf("  %s\n", path)
	fmt.Println()

	if _, err := os.Stat(path); err == nil {
		fmt.Println("Note: A skill file already exists and will be overwritten.")
		fmt.Println()
	}

	if !skillSkipConfirm {
		if !confirm("Install the dose skill? [y/N] ") {
			fmt.Println("Installation canceled.")
			return nil
		}
		fmt.Println()
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Println("✓ Installed dose skill successfully!")
	fmt.Println()
	fmt.Println("Try asking Claude: \"Log my BPC-157 dose\" or \"What do I take today?\"")
	return nil
}
