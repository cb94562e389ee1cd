package main

import (
	"fmt"

	"github.com/phrazzld/dialogen/internal/dataset"
	"github.com/spf13/cobra"
)

func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert generated records into the role/content training format",
		Long: `Convert a generated dataset into the training format.

Reads a JSON list of persona records, drops every image_text field, and
reshapes each record's dialogue into a list of {role, content} turns with
roles alternating user/assistant from index 0. Records without turns are
dropped. Use - for stdin or stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: convertCommandE,
	}

	return cmd
}

func convertCommandE(_ *cobra.Command, args []string) error {
	payload, err := dataset.ReadJSON(args[0])
	if err != nil {
		return err
	}

	list, ok := payload.([]any)
	if !ok {
		return fmt.Errorf("input %s must be a JSON list of records, got %T", args[0], payload)
	}

	records := make([]map[string]any, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("record %d in %s is not a JSON object", i, args[0])
		}
		records = append(records, rec)
	}

	return dataset.WriteJSON(args[1], dataset.Convert(records))
}
