// pulsechat CLI - terminal client for the pulsechat server.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"pulsechat/clients/chatfeed"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	baseURL := os.Getenv("PULSECHAT_URL")
	client := chatfeed.NewClient(baseURL)
	cmd := os.Args[1]

	switch cmd {
	case "read":
		messages, err := client.Messages(context.Background(), 0)
		exitOnError(err)
		for _, msg := range messages {
			printMessage(msg)
		}

	case "post":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: pulsechat post <username> <text>")
			os.Exit(1)
		}
		msg, err := client.PostMessage(context.Background(), os.Args[2], strings.Join(os.Args[3:], " "))
		exitOnError(err)
		fmt.Printf("Posted #%d\n", msg.ID)

	case "register":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: pulsechat register <username>")
			os.Exit(1)
		}
		userID, err := client.RegisterUser(context.Background(), os.Args[2])
		exitOnError(err)
		fmt.Printf("Registered as user %d\n", userID)

	case "users":
		users, err := client.Users(context.Background())
		exitOnError(err)
		for _, user := range users {
			fmt.Printf("  %d  %s\n", user.ID, user.Username)
		}

	case "watch":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: pulsechat watch <username>")
			os.Exit(1)
		}
		watch(client, os.Args[2])

	default:
		usage()
		os.Exit(1)
	}
}

// watch runs the feed synchronizer and submits stdin lines as messages.
func watch(client *chatfeed.Client, username string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := chatfeed.NewSynchronizer(client, username, 3*time.Second, printMessage)
	go func() {
		_ = feed.Run(ctx)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		feed.SetDraft(line)
		if err := feed.Submit(ctx); err != nil {
			// The draft is kept; an empty line will not resend it, but any
			// new input replaces it.
			fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
		}
	}
}

func printMessage(msg chatfeed.Message) {
	fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Local().Format("2006-01-02 15:04:05"), msg.Username, msg.Text)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`pulsechat - terminal chat client

Usage: pulsechat <command> [args]

Commands:
  read                 print the full message log
  post <user> <text>   post one message
  register <username>  register a username, print its user id
  users                list registered users
  watch <username>     follow the feed; stdin lines are sent as messages

Environment:
  PULSECHAT_URL        server base URL (default http://localhost:4000)`)
}
