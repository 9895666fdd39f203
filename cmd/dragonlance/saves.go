package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iRKakashi/dragon-lance-web/internal/config"
	"github.com/iRKakashi/dragon-lance-web/internal/logger"
	internalstorage "github.com/iRKakashi/dragon-lance-web/internal/storage"
	"github.com/iRKakashi/dragon-lance-web/pkg/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List or delete saved games",
	RunE:  runListSaves,
}

var deleteSaveCmd = &cobra.Command{
	Use:   "delete [slot]",
	Short: "Delete a saved game",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDeleteSave,
}

func init() {
	savesCmd.AddCommand(deleteSaveCmd)
}

func openSaves(ctx context.Context) (storage.Storage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logOut, _, err := logger.OpenFile(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return internalstorage.Open(ctx, cfg, logger.Setup(cfg, logOut))
}

func runListSaves(cmd *cobra.Command, args []string) error {
	saves, err := openSaves(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = saves.Close()
	}()

	infos, err := saves.ListSaves(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list saves: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No saved games.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tSAVED\tENTRY\tCHARACTER")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Slot, info.Timestamp.Local().Format(time.DateTime), info.EntryID, info.Name)
	}
	return w.Flush()
}

func runDeleteSave(cmd *cobra.Command, args []string) error {
	slot := storage.DefaultSlot
	if len(args) == 1 {
		slot = args[0]
	}

	saves, err := openSaves(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		_ = saves.Close()
	}()

	if err := saves.DeleteSave(context.Background(), slot); err != nil {
		return fmt.Errorf("failed to delete %q: %w", slot, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", slot)
	return nil
}
