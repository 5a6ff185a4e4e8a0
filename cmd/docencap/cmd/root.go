// Package cmd holds the docencap cobra commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/mrsinham/docencap/internal/dicom/doctype"
	"github.com/spf13/cobra"
)

// NewRoot builds the docencap command tree.
func NewRoot(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docencap",
		Short: "Encapsulate CDA, PDF and STL documents into DICOM",
		Long: "docencap wraps a clinical document, a PDF or a 3D model into a DICOM encapsulated\n" +
			"document, reconciling patient and study metadata with an optional existing series.",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		NewVersionCmd(version),
		NewEncapsulateCmd(doctype.CDA, "Encapsulate an HL7 CDA document"),
		NewEncapsulateCmd(doctype.PDF, "Encapsulate a PDF document"),
		NewEncapsulateCmd(doctype.STL, "Encapsulate an STL 3D model"),
	)
	return cmd
}

// NewVersionCmd prints the build version.
func NewVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docencap version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func usageFor(class doctype.Class) string {
	ext := map[doctype.Class]string{doctype.CDA: "xml", doctype.PDF: "pdf", doctype.STL: "stl"}[class]
	return fmt.Sprintf("%s [flags] <input.%s> <output.dcm>", strings.ToLower(string(class)), ext)
}
