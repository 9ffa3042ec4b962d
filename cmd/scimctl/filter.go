package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scim-go/scimcore/pkg/scim"
)

type filterOptions struct {
	expr         string
	resourceFile string
}

func newFilterCmd() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:     "filter",
		Short:   "Evaluate a SCIM filter expression against a resource document",
		Example: `scimctl filter --expr 'userName eq "bjensen"' --resource user.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.expr, "expr", "", "SCIM filter expression")
	cmd.Flags().StringVar(&opts.resourceFile, "resource", "", "path to the resource document (JSON)")
	cmd.MarkFlagRequired("expr")
	cmd.MarkFlagRequired("resource")

	return cmd
}

func runFilter(cmd *cobra.Command, opts *filterOptions) error {
	ast, err := scim.ParseFilter(opts.expr)
	if err != nil {
		return fmt.Errorf("parse filter: %w", err)
	}

	body, err := os.ReadFile(opts.resourceFile)
	if err != nil {
		return fmt.Errorf("read resource file: %w", err)
	}

	reg := scim.NewUserRegistry()
	doc, err := scim.DecodeDocument(reg, body)
	if err != nil {
		return fmt.Errorf("decode resource: %w", err)
	}

	matched, err := scim.EvaluateFilter(ast, doc, nil)
	if err != nil {
		return fmt.Errorf("evaluate filter: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), matched)
	return nil
}
