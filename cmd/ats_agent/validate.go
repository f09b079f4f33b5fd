package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-matcher/internal/schemas"
	schemafiles "github.com/jonathan/ats-matcher/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a keyword-extraction schema",
	RunE:  runValidate,
}

var (
	validateSchema string
	validateFile   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", schemafiles.ExtractionResult,
		"Schema name: "+strings.Join(schemafiles.Names(), ", "))
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to the JSON file")
	_ = validateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if !slices.Contains(schemafiles.Names(), validateSchema) {
		return fmt.Errorf("unknown schema %q: use one of %s", validateSchema, strings.Join(schemafiles.Names(), ", "))
	}
	if err := schemas.ValidateJSON(validateSchema, validateFile); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is valid against %s\n", validateFile, validateSchema)
	return err
}
