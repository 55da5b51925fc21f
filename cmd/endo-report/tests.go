package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	endoreport "github.com/GYingWu/Endocrine-report"
)

func testsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tests",
		Short: "列出支援的試驗",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return listTests(cmd, a.conv)
		},
	}
}

func listTests(cmd *cobra.Command, conv *endoreport.Converter) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"type", "title", "strategy", "labels"})
	for _, t := range conv.Tests() {
		tw.AppendRow(table.Row{t.Type, t.Title, t.Strategy, strings.Join(t.Labels, " ")})
	}
	_, err := cmd.OutOrStdout().Write([]byte(tw.Render() + "\n"))
	return err
}
