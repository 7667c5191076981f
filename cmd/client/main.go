// Package main is the storefront CLI client: it keeps the authenticated
// session on disk, talks to the gateway with a bearer-attaching HTTP client,
// and mirrors the storefront's navigation rules for the admin area.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rafaelmdsouza/vitrine/internal/client/api"
	"github.com/rafaelmdsouza/vitrine/internal/client/guard"
	"github.com/rafaelmdsouza/vitrine/internal/client/session"
	"github.com/rafaelmdsouza/vitrine/internal/models"
)

var (
	version   string
	buildDate string
)

// watchInterval is how often order status is polled; redirectCountdown is the
// pause before the watcher returns to the prompt, mirroring the storefront's
// payment result pages.
const (
	watchInterval     = time.Second
	redirectCountdown = 5
	watchMaxPolls     = 60
)

// terminalStatuses stop the order watcher.
var terminalStatuses = map[string]bool{
	"paid":      true,
	"delivered": true,
	"cancelled": true,
	"rejected":  true,
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

func printJSON(raw json.RawMessage) {
	var buf map[string]any
	if err := json.Unmarshal(raw, &buf); err == nil {
		b, _ := json.MarshalIndent(buf, "", "  ")
		fmt.Println(string(b))
		return
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		b, _ := json.MarshalIndent(list, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Println(string(raw))
}

// watchOrder polls the order once a second until it reaches a terminal
// status or the poll budget runs out, then counts down before returning to
// the prompt. The ticker is always stopped on the way out.
func watchOrder(client *api.Client, id string) {
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	last := ""
	for i := 0; i < watchMaxPolls; i++ {
		status, _, err := client.Order(context.Background(), id)
		if err != nil {
			fmt.Println("watch error:", err)
			return
		}
		if status.Status != last {
			last = status.Status
			fmt.Printf("order %s: %s\n", status.ID, status.Status)
		}
		if terminalStatuses[status.Status] {
			for s := redirectCountdown; s > 0; s-- {
				fmt.Printf("returning to prompt in %d...\n", s)
				<-ticker.C
			}
			return
		}
		<-ticker.C
	}
	fmt.Println("stopped watching")
}

// repl runs the interactive shell loop.
func repl(client *api.Client, store *session.Store) {
	unsubscribe := store.Subscribe(func(ev session.Event) {
		if ev == session.EventLogout {
			fmt.Println("\nsession ended, please log in again")
		}
	})
	defer unsubscribe()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("vitrine> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		ctx := context.Background()

		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, register, logout, whoami, cart, cart-add, orders, order <id>, cancel <id>, watch <id>, pix <id>, promos, promo-add, exit")
		case "login":
			email := prompt(scanner, "Email: ")
			password := prompt(scanner, "Password: ")
			sess, err := client.Login(ctx, email, password)
			if err != nil {
				fmt.Println("login failed:", err)
				continue
			}
			fmt.Printf("logged in as %s\n", sess.User.Email)
		case "register":
			email := prompt(scanner, "Email: ")
			name := prompt(scanner, "Full name: ")
			password := prompt(scanner, "Password: ")
			sess, err := client.Register(ctx, email, name, password)
			if err != nil {
				fmt.Println("registration failed:", err)
				continue
			}
			fmt.Printf("welcome, %s\n", sess.User.FullName)
		case "logout":
			if err := client.Logout(); err != nil {
				fmt.Println("logout failed:", err)
			}
		case "whoami":
			sess, ok := store.Get()
			if !ok {
				fmt.Println("not logged in")
				continue
			}
			fmt.Printf("%s <%s> admin=%v\n", sess.User.FullName, sess.User.Email, sess.User.IsAdmin)
		case "cart":
			raw, err := client.Cart(ctx)
			if err != nil {
				fmt.Println("cart failed:", err)
				continue
			}
			printJSON(raw)
		case "cart-add":
			productID := prompt(scanner, "Product id: ")
			qty := prompt(scanner, "Quantity: ")
			raw, err := client.CartAdd(ctx, map[string]string{
				"product_id": productID,
				"quantity":   qty,
			})
			if err != nil {
				fmt.Println("cart-add failed:", err)
				continue
			}
			printJSON(raw)
		case "orders":
			raw, err := client.Orders(ctx)
			if err != nil {
				fmt.Println("orders failed:", err)
				continue
			}
			printJSON(raw)
		case "order":
			if len(args) < 2 {
				fmt.Println("Usage: order <id>")
				continue
			}
			_, raw, err := client.Order(ctx, args[1])
			if err != nil {
				fmt.Println("order failed:", err)
				continue
			}
			printJSON(raw)
		case "cancel":
			if len(args) < 2 {
				fmt.Println("Usage: cancel <id>")
				continue
			}
			raw, err := client.CancelOrder(ctx, args[1])
			if err != nil {
				fmt.Println("cancel failed:", err)
				continue
			}
			printJSON(raw)
		case "watch":
			if len(args) < 2 {
				fmt.Println("Usage: watch <id>")
				continue
			}
			watchOrder(client, args[1])
		case "pix":
			if len(args) < 2 {
				fmt.Println("Usage: pix <id>")
				continue
			}
			raw, err := client.PixPayload(ctx, args[1])
			if err != nil {
				fmt.Println("pix failed:", err)
				continue
			}
			printJSON(raw)
		case "promos":
			promos, err := client.Promotions(ctx)
			if err != nil {
				fmt.Println("promos failed:", err)
				continue
			}
			for _, p := range promos {
				fmt.Printf("%s [%s] %s active=%v\n", p.ID, p.Type, p.Name, p.Active)
			}
		case "promo-add":
			decision := guard.Guard{Store: store, RequireAdmin: true}.Check()
			if !decision.Allowed {
				fmt.Printf("not allowed, go to %s\n", decision.Redirect)
				continue
			}
			name := prompt(scanner, "Name: ")
			pct := prompt(scanner, "Percentage: ")
			var percentage float64
			if _, err := fmt.Sscanf(pct, "%f", &percentage); err != nil {
				fmt.Println("invalid percentage")
				continue
			}
			created, err := client.CreatePromotion(ctx, models.Promotion{
				Name:       name,
				Type:       models.PromotionPercentage,
				Active:     true,
				Percentage: &percentage,
			})
			if err != nil {
				fmt.Println("promo-add failed:", err)
				continue
			}
			fmt.Printf("created promotion %s\n", created.ID)
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// main parses command-line flags and starts the shell.
func main() {
	var (
		baseURL     string
		sessionPath string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "gateway base URL")
	flag.StringVar(&sessionPath, "session", session.DefaultPath(), "path to the session file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Vitrine Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	store, err := session.NewStore(session.NewFileStore(sessionPath))
	if err != nil {
		// A corrupt session file was cleared; start logged out.
		fmt.Println("stored session discarded:", err)
	}

	client := api.New(baseURL, store)

	if sess, ok := store.Get(); ok {
		fmt.Printf("welcome back, %s\n", sess.User.FullName)
	}

	repl(client, store)
}
