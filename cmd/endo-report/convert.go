package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	endoreport "github.com/GYingWu/Endocrine-report"
)

type convertOptions struct {
	test   string
	input  string
	output string
	full   bool
	asJSON bool
}

func convertCmd() *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "轉換檢驗匯出檔為試驗報告",
		Example: `  endo-report convert --test gnrh --input export.txt
  pbpaste | endo-report convert --test insulin --full`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return runConvert(cmd, a.conv, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.test, "test", "t", "", "試驗類型 (insulin, clonidine, gnrh, glucagon)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "輸入檔 (- 為標準輸入)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "輸出檔 (預設標準輸出)")
	cmd.Flags().BoolVar(&opts.full, "full", false, "附上完整檢驗表")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "以 JSON 輸出完整結果")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}

func runConvert(cmd *cobra.Command, conv *endoreport.Converter, opts convertOptions) error {
	content, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	res, err := conv.Convert(endoreport.TestType(opts.test), endoreport.DecodeInput(content))
	if err != nil {
		return err
	}
	if res.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Warning)
	}

	var out []byte
	if opts.asJSON {
		out, err = json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON 編碼失敗: %w", err)
		}
		out = append(out, '\n')
	} else {
		text := res.Report
		if opts.full && len(res.Full.Rows) > 0 {
			text += "\n" + endoreport.RenderGrid(res.Full) + "\n"
		}
		out = []byte(text)
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return os.WriteFile(opts.output, out, 0o644)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("讀取檔案失敗: %w", err)
	}
	return content, nil
}
