package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okian/energy-analytics/internal/datagen"
	"github.com/okian/energy-analytics/pkg/logger"
)

var (
	uploadURL     string
	uploadFile    string
	uploadRetries int
	uploadTimeout time.Duration
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a CSV to a running dashboard",
	Long:  `Posts a CSV file to the dashboard's upload endpoint and prints the forecast it computed.`,
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadURL, "url", "http://localhost:9080", "dashboard base URL")
	uploadCmd.Flags().StringVar(&uploadFile, "file", "", "CSV file to upload")
	uploadCmd.Flags().IntVar(&uploadRetries, "retries", 3, "retries on transport or server errors")
	uploadCmd.Flags().DurationVar(&uploadTimeout, "timeout", 2*time.Minute, "overall deadline")
	_ = uploadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(uploadFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", uploadFile, err)
	}

	ctx := cmd.Context()
	if uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uploadTimeout)
		defer cancel()
	}

	u := datagen.NewUploader(uploadURL,
		datagen.WithBackoff(datagen.BackoffConfig{MaxRetries: uploadRetries, InitialInterval: 500 * time.Millisecond, MaxInterval: 10 * time.Second}),
		datagen.WithUploaderLogger(logger.Get().Named("upload")),
	)
	view, err := u.Upload(ctx, uploadFile, data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Uploaded %s (%s)\n", uploadFile, humanize.Bytes(uint64(len(data))))
	printView(out, view)
	return nil
}
