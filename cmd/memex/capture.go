package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memexlabs/memex/capture"
	"github.com/memexlabs/memex/clipboard"
	"github.com/memexlabs/memex/internal/clifmt"
)

var (
	captureSpace     string
	captureClipboard bool
	captureNoWait    bool
)

var captureCmd = &cobra.Command{
	Use:   "capture [url]",
	Short: "Capture a link into your library",
	Long: `Captures a URL as a new item. The item is stored immediately with a
provisional title; the page title and metadata are filled in by a
background fetch.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&captureSpace, "space", "s", "", "space id to file the item under")
	captureCmd.Flags().BoolVar(&captureClipboard, "clipboard", false, "read the URL from the system clipboard")
	captureCmd.Flags().BoolVar(&captureNoWait, "no-wait", false, "exit after the provisional item is stored")
}

func runCapture(cmd *cobra.Command, args []string) error {
	rawURL := ""
	switch {
	case len(args) == 1:
		rawURL = args[0]
	case captureClipboard:
		text, err := clipboard.Read()
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		rawURL = strings.TrimSpace(text)
	default:
		return fmt.Errorf("pass a URL or use --clipboard")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	queue := captureQueue(a)
	defer queue.Close()

	task, err := queue.Enqueue(ctx, capture.Request{
		URL:     rawURL,
		SpaceID: captureSpace,
		Source:  "cli",
	})
	if err != nil {
		return err
	}

	fmt.Println(clifmt.Success("captured"), clifmt.Dim(task.ItemID))
	if captureNoWait {
		return nil
	}

	select {
	case <-task.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := task.Err(); err != nil {
		fmt.Println(clifmt.Warn("enrichment failed: " + err.Error()))
	} else if item, ok := a.Store.ItemByID(task.ItemID); ok {
		fmt.Println(clifmt.Headerf("%s", item.Title), clifmt.Dim(string(item.Type)))
	}
	a.Dispatch.Flush()
	return nil
}
