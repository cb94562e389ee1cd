package main

import (
	"github.com/phrazzld/dialogen/internal/dataset"
	"github.com/spf13/cobra"
)

func newMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <first> <second> <output>",
		Short: "Concatenate two JSON dataset files",
		Long: `Concatenate two JSON payloads one after the other.

Two lists are appended; two objects are shallow-merged with the second
file's keys winning; mixing a list with an object is an error. Use - for
stdin or stdout.`,
		Args: cobra.ExactArgs(3),
		RunE: mergeCommandE,
	}

	return cmd
}

func mergeCommandE(_ *cobra.Command, args []string) error {
	first, err := dataset.ReadJSON(args[0])
	if err != nil {
		return err
	}

	second, err := dataset.ReadJSON(args[1])
	if err != nil {
		return err
	}

	merged, err := dataset.Merge(first, second)
	if err != nil {
		return err
	}

	return dataset.WriteJSON(args[2], merged)
}
