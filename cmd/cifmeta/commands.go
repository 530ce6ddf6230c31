package main

import (
	"github.com/spf13/cobra"

	"github.com/andrew-torda/cifmeta/pkg/cifmeta"
)

func formulaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formula FILE...",
		Short: "Print the cleaned formula, element counts and number of elements",
		Args:  nArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cifmeta.Formula(cmd.OutOrStdout(), args, a.opts)
		},
	}
}

func cellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cell FILE",
		Short: "Print the unit cell lengths and angles",
		Args:  nArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cifmeta.Cell(cmd.OutOrStdout(), args[0], a.opts)
		},
	}
}

func sitesCmd(a *app) *cobra.Command {
	var row int
	c := &cobra.Command{
		Use:   "sites FILE",
		Short: "Print the atomic sites, one labelled line per column",
		Args:  nArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cifmeta.Sites(cmd.OutOrStdout(), args[0], row, a.opts)
		},
	}
	c.Flags().IntVar(&row, "row", cifmeta.AllRows, "print only this row, counting from 0")
	return c
}

func scanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan DIR",
		Short: "Summarise every .cif and .cif.gz file under a directory",
		Args:  nArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cifmeta.Scan(cmd.Context(), cmd.OutOrStdout(), args[0], a.opts)
			return err
		},
	}
}

func fetchCmd(a *app) *cobra.Command {
	var out string
	c := &cobra.Command{
		Use:   "fetch COD_ID",
		Short: "Download an entry from the Crystallography Open Database",
		Args:  nArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cifmeta.Fetch(cmd.Context(), cmd.OutOrStdout(), args[0], out, a.opts)
		},
	}
	c.Flags().StringVarP(&out, "output", "o", "", "save the file here instead of printing a summary")
	return c
}
