package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"huddle/client"
	"huddle/ui"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	token := flag.String("token", "", "auth token (defaults to HUDDLE_TOKEN)")
	flag.Parse()

	if *token == "" {
		*token = os.Getenv("HUDDLE_TOKEN")
	}

	c := client.New(*server)

	var selfID string
	if *token != "" {
		c.SetToken(*token)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		user, err := c.Me(ctx)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "token rejected by %s: %v\n", *server, err)
			os.Exit(1)
		}
		selfID = user.ID
	}

	model := ui.NewModel(ui.Config{
		Service:    c,
		Auth:       c,
		Subscriber: c,
		SelfID:     selfID,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
