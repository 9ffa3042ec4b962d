package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scim-go/scimcore/pkg/scim"
)

type patchOptions struct {
	resourceFile string
	requestFile  string
}

func newPatchCmd() *cobra.Command {
	opts := &patchOptions{}

	cmd := &cobra.Command{
		Use:     "patch",
		Short:   "Apply a PatchOp request body to a resource document",
		Example: "scimctl patch --resource user.json --request patchop.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.resourceFile, "resource", "", "path to the resource document (JSON)")
	cmd.Flags().StringVar(&opts.requestFile, "request", "", "path to the PatchOp request body (JSON)")
	cmd.MarkFlagRequired("resource")
	cmd.MarkFlagRequired("request")

	return cmd
}

func runPatch(cmd *cobra.Command, opts *patchOptions) error {
	resourceBody, err := os.ReadFile(opts.resourceFile)
	if err != nil {
		return fmt.Errorf("read resource file: %w", err)
	}
	requestBody, err := os.ReadFile(opts.requestFile)
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}

	reg := scim.NewUserRegistry()
	doc, err := scim.DecodeDocument(reg, resourceBody)
	if err != nil {
		return fmt.Errorf("decode resource: %w", err)
	}

	ops, err := scim.DecodePatchRequest(requestBody)
	if err != nil {
		return fmt.Errorf("decode patch request: %w", err)
	}

	updated, results, err := scim.ApplyPatches(doc, reg, ops)
	if err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}

	out, err := scim.EncodeDocument(updated)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	for i, r := range results {
		fmt.Fprintf(cmd.ErrOrStderr(), "operation %d (%s %s): changed=%v\n", i, r.Op, r.Path, r.Changed)
	}
	return nil
}
