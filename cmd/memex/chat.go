package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memexlabs/memex/internal/clifmt"
)

var chatConversation string

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the library assistant",
	Long: `Sends a message to the assistant. With no message and an interactive
terminal, starts a REPL. Prefix a message with /architect for the
diagnostic tool set.`,
	Args: cobra.ArbitraryArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatConversation, "conversation", "c", "", "conversation id to continue")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	queue := captureQueue(a)
	defer queue.Close()

	engine, err := assistantEngine(a, queue)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		msg, err := engine.Respond(ctx, chatConversation, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(msg.Content)
		a.Dispatch.Flush()
		return nil
	}

	if !clifmt.StdinInteractive() {
		// piped input: read the whole message from stdin
		data, err := readAll(os.Stdin)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(data)
		if text == "" {
			return fmt.Errorf("empty message")
		}
		msg, err := engine.Respond(ctx, chatConversation, text)
		if err != nil {
			return err
		}
		fmt.Println(msg.Content)
		a.Dispatch.Flush()
		return nil
	}

	fmt.Println(clifmt.Headerf("memex assistant"), clifmt.Dim("(exit with ctrl-d or /quit)"))
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	conversation := chatConversation
	for {
		fmt.Print(clifmt.Key("> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}
		msg, err := engine.Respond(ctx, conversation, line)
		if err != nil {
			fmt.Println(clifmt.Errorf("error: %v", err))
			continue
		}
		// keep appending to the same conversation once it exists
		if conversation == "" {
			if convs := a.Store.Conversations(); len(convs) > 0 {
				conversation = convs[0].ID
			}
		}
		fmt.Println(msg.Content)
	}
	a.Dispatch.Flush()
	return scanner.Err()
}

func readAll(f *os.File) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	return sb.String(), scanner.Err()
}
