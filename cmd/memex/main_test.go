package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRun_PrintsCommandError(t *testing.T) {
	cmd := &cobra.Command{
		Use:           "memex-test",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return errors.New("pass a URL or use --clipboard")
		},
	}
	var out bytes.Buffer
	if code := run(cmd, &out); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "pass a URL or use --clipboard") {
		t.Fatalf("error not reported to the user: %q", out.String())
	}
}

func TestRun_SuccessIsSilent(t *testing.T) {
	cmd := &cobra.Command{
		Use: "memex-test",
		RunE: func(*cobra.Command, []string) error {
			return nil
		},
	}
	var out bytes.Buffer
	if code := run(cmd, &out); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output on success: %q", out.String())
	}
}
