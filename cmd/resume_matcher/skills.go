package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KhymNad/resume-matcher-api/internal/config"
	"github.com/KhymNad/resume-matcher-api/internal/db"
	"github.com/KhymNad/resume-matcher-api/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage the skill vocabulary stored in the database",
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored skill name",
	RunE:  runSkillsList,
}

var skillsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Add skills from a YAML vocabulary file",
	RunE:  runSkillsImport,
}

var skillsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a skill by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSkillsDelete,
}

var (
	skillsDatabaseURL string
	skillsImportFile  string
)

func init() {
	skillsCmd.PersistentFlags().StringVar(&skillsDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL env var)")
	skillsImportCmd.Flags().StringVarP(&skillsImportFile, "file", "f", "", "YAML file with a skills list (required)")
	_ = skillsImportCmd.MarkFlagRequired("file")

	skillsCmd.AddCommand(skillsListCmd, skillsImportCmd, skillsDeleteCmd)
	rootCmd.AddCommand(skillsCmd)
}

// connectDB opens and migrates the database at url.
func connectDB(ctx context.Context, url string) (*db.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}
	store, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// databaseURLOrEnv returns flagValue, falling back to DATABASE_URL.
func databaseURLOrEnv(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.GetEnvString("DATABASE_URL", "")
}

func skillsDB(cmd *cobra.Command) (*db.DB, error) {
	return connectDB(commandContext(cmd), databaseURLOrEnv(skillsDatabaseURL))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runSkillsList(cmd *cobra.Command, _ []string) error {
	store, err := skillsDB(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	names, err := store.ListSkillNames(commandContext(cmd))
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(os.Stdout, name)
	}
	return nil
}

func runSkillsImport(cmd *cobra.Command, _ []string) error {
	ctx := commandContext(cmd)
	names, err := skills.FileStore{Path: skillsImportFile}.LoadSkillNames(ctx)
	if err != nil {
		return err
	}

	store, err := skillsDB(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	added, err := store.AddSkills(ctx, names)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d of %d skills\n", added, len(names))
	return nil
}

func runSkillsDelete(cmd *cobra.Command, args []string) error {
	store, err := skillsDB(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.DeleteSkill(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("skill not found: %s", args[0])
	}
	fmt.Fprintf(os.Stdout, "Deleted %s\n", args[0])
	return nil
}
