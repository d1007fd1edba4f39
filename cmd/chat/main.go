/*
Package main is the terminal chat client.

It prompts for a display name, opens a session against the relay, prints the
conversation as events arrive, and reads stdin lines as outbound messages.
Slash commands: /edit <id> <text>, /delete <id>, /users, /quit.
*/
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/x0x0b/chat-frontend/internal/app/client"
	"github.com/x0x0b/chat-frontend/internal/app/protocol"
	"github.com/x0x0b/chat-frontend/internal/configs"
	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
)

var relayURL = flag.String("relay", "", "relay websocket URL (overrides RELAY_URL)")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(false)

	url := cfg.RelayURL
	if *relayURL != "" {
		url = *relayURL
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("Enter your display name: ")
	scanner.Scan()
	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		fmt.Fprintln(os.Stderr, "A display name is required.")
		os.Exit(1)
	}

	chat := client.New(name)
	chat.OnUpdate(printUpdate(chat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := chat.Open(ctx, url); err != nil {
		fmt.Fprintf(os.Stderr, "Could not connect: %v\n", err)
		os.Exit(1)
	}
	defer chat.Close()

	fmt.Printf("Joined as %s. Type a message and press Enter. /quit to leave.\n", name)

	go func() {
		select {
		case <-ctx.Done():
		case <-chat.Done():
		}
		chat.Close()
		os.Exit(0)
	}()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(chat, line); quit {
				return
			}
			continue
		}

		if _, err := chat.Send(line); err != nil {
			fmt.Fprintf(os.Stderr, "Send failed: %v\n", err)
		}
	}
}

// runCommand handles slash commands. Returns true when the client should quit.
func runCommand(chat *client.Chat, line string) bool {
	fields := strings.Fields(line)

	switch fields[0] {
	case "/quit":
		return true

	case "/users":
		names := chat.Presence.Names()
		fmt.Printf("* %d connected: %s\n", len(names), strings.Join(names, ", "))

	case "/edit":
		if len(fields) < 3 {
			fmt.Println("Usage: /edit <id> <text>")
			return false
		}
		id := fields[1]
		text := strings.TrimSpace(strings.TrimPrefix(line, "/edit "+id))
		if err := chat.Edit(id, text); err != nil {
			fmt.Fprintf(os.Stderr, "Edit failed: %v\n", err)
		}

	case "/delete":
		if len(fields) != 2 {
			fmt.Println("Usage: /delete <id>")
			return false
		}
		if err := chat.Delete(fields[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
		}

	default:
		fmt.Printf("Unknown command %q\n", fields[0])
	}

	return false
}

// printUpdate renders one line per applied inbound event.
func printUpdate(chat *client.Chat) func(event string) {
	return func(event string) {
		switch event {
		case protocol.EventMessage, protocol.EventUserJoined, protocol.EventUserLeft:
			messages := chat.Store.Messages()
			if len(messages) == 0 {
				return
			}
			last := messages[len(messages)-1]
			if last.IsSystem() {
				fmt.Printf("* %s\n", last.Text)
				return
			}
			fmt.Printf("[%s] %s: %s (id=%s)\n",
				last.Timestamp.Format("15:04:05"), last.Username, last.Text, last.ID)

		case protocol.EventMessageEdited:
			fmt.Println("* a message was edited")

		case protocol.EventMessageDeleted:
			fmt.Println("* a message was deleted")

		case protocol.EventUserList:
			fmt.Printf("* %d participant(s) connected\n", chat.Presence.Count())

		case protocol.EventTyping:
			if typing := chat.Typing.Typing(chat.Name()); len(typing) > 0 {
				fmt.Printf("* %s typing...\n", strings.Join(typing, ", "))
			}

		case protocol.EventError:
			if msg := chat.Notice.Message(); msg != "" {
				fmt.Printf("! %s\n", msg)
			}
		}
	}
}
