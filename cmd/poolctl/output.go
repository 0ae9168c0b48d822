package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func isJSONOutputRequested(cmd *cobra.Command) (bool, error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return false, errors.Wrap(err, "failed to get output format")
	}

	switch strings.ToLower(output) {
	case "json":
		return true, nil
	case "text", "":
		return false, nil
	}
	return false, errors.Errorf("unsupported output format %q", output)
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return err
	}

	if !isJSON {
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
		return nil
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal json")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
