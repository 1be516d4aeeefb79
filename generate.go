package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"colorstory/pipeline"
)

func generateCmd() *cobra.Command {
	var (
		input string
		uid   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run one story generation and print the story id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			in, err := readStoryInput(input)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.service.GenerateStory(ctx, pipeline.Caller{UID: uid}, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.StoryID)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "path to a JSON story request")
	cmd.Flags().StringVar(&uid, "as", "", "user id that will own the story")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func readStoryInput(path string) (pipeline.StoryInput, error) {
	var in pipeline.StoryInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse input %s: %w", path, err)
	}
	return in, nil
}
