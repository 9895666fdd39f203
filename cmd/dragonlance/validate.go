package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iRKakashi/dragon-lance-web/pkg/skillcheck"
	"github.com/iRKakashi/dragon-lance-web/pkg/story"
)

var (
	startEntry   string
	showWarnings bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <character_creation.json> <adventure.json>",
	Short: "Check entry documents for authoring mistakes",
	Long: `Load both entry documents the way the game does and report dangling
destinations, incomplete skill checks, unknown skills and conditional text axes.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&startEntry, "start", story.DefaultStartEntry, "entry a new game begins at")
	validateCmd.Flags().BoolVar(&showWarnings, "warnings", true, "print warnings as well as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s and %s...\n", args[0], args[1])

	store, err := story.Load(context.Background(), story.SourceFor(args[0], nil), story.SourceFor(args[1], nil))
	if err != nil {
		return err
	}

	problems := story.Validate(store, story.ValidateOptions{
		StartEntry: startEntry,
		KnownSkill: skillcheck.IsKnown,
	})
	var errs, warns int
	for _, p := range problems {
		if p.Severity == story.SeverityError {
			errs++
		} else {
			warns++
			if !showWarnings {
				continue
			}
		}
		fmt.Fprintln(out, p.String())
	}

	nChar, nAdv := store.Len()
	fmt.Fprintf(out, "%d character-creation and %d adventure entries: %d errors, %d warnings\n", nChar, nAdv, errs, warns)
	if story.HasErrors(problems) {
		return fmt.Errorf("validation failed with %d errors", errs)
	}
	fmt.Fprintln(out, "Entry files are valid!")
	return nil
}
