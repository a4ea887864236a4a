// cmd/ricecart/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/config"
	"github.com/your-org/ricecart/internal/domain/cart"
	"github.com/your-org/ricecart/internal/domain/catalog"
	"github.com/your-org/ricecart/internal/domain/checkout"
	"github.com/your-org/ricecart/internal/domain/order"
	"github.com/your-org/ricecart/internal/domain/payment"
	"github.com/your-org/ricecart/internal/domain/session"
	"github.com/your-org/ricecart/internal/infrastructure/localstore"
	"github.com/your-org/ricecart/internal/interfaces/callback"
	"github.com/your-org/ricecart/internal/pkg/api"
	"github.com/your-org/ricecart/internal/pkg/email"
	"github.com/your-org/ricecart/internal/pkg/logging"
	"github.com/your-org/ricecart/internal/pkg/receipt"
)

const usage = `ricecart - headless client for the rice storefront

Usage:
  ricecart products                     List the catalog
  ricecart product <id>                 Show one product
  ricecart signup                       Create an account
  ricecart login                        Open a session
  ricecart logout                       End the session
  ricecart profile                      Show the profile
  ricecart profile update               Update the profile
  ricecart cart                         Show the cart
  ricecart cart add <product-id>        Add a product (quantity 1)
  ricecart cart remove <product-id>     Remove a product
  ricecart cart qty <product-id> <n>    Set a quantity (below 1 removes)
  ricecart orders                       Show order history
  ricecart buy <product-id|all>         Pay with Razorpay
  ricecart contact                      Send a message to the store
`

// app wires the client services together for one command invocation
type app struct {
	config   *config.Config
	logger   *logrus.Logger
	store    *localstore.Store
	api      *api.Client
	sessions *session.Service
	catalog  *catalog.Service
	orders   *order.Service
	checkout *checkout.Service
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg)

	store, err := localstore.NewConnection(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open local store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	apiClient := api.NewClient(cfg, logger)
	catalogService := catalog.NewService(apiClient)
	paymentService := payment.NewService(apiClient)

	var receipts checkout.ReceiptWriter
	if cfg.Receipt.Enabled {
		receipts = receipt.NewService(cfg)
	}

	a := &app{
		config:   cfg,
		logger:   logger,
		store:    store,
		api:      apiClient,
		sessions: session.NewService(apiClient, store, cfg, logger),
		catalog:  catalogService,
		orders:   order.NewService(apiClient, catalogService, logger),
		checkout: checkout.NewService(paymentService, callback.NewListener(cfg, logger), receipts, cfg, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		// Every failure surfaces as a single user-facing notice.
		fmt.Fprintln(os.Stderr, notice(err))
		os.Exit(1)
	}
}

// run dispatches one subcommand
func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "products":
		return a.cmdProducts(ctx)
	case "product":
		return a.cmdProduct(ctx, args)
	case "signup":
		return a.cmdSignup(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout(ctx)
	case "profile":
		return a.cmdProfile(ctx, args)
	case "cart":
		return a.cmdCart(ctx, args)
	case "orders":
		return a.cmdOrders(ctx)
	case "buy":
		return a.cmdBuy(ctx, args)
	case "contact":
		return a.cmdContact(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) cmdProducts(ctx context.Context) error {
	products, err := a.catalog.List(ctx)
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Println("No products available.")
		return nil
	}
	for _, p := range products {
		fmt.Printf("#%d  %s - %d rs/kg\n    %s\n", p.ID, p.Name, p.Prize, p.LineDescription)
	}
	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {
	id, err := parseID(args, "product id")
	if err != nil {
		return err
	}

	p, err := a.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n%s\nprize - %d rs/kg\n\n%s\n", p.Name, p.LineDescription, p.Prize, p.Details)
	if benefits := p.Benefits(); len(benefits) > 0 {
		fmt.Println("\nBenefits:")
		for _, b := range benefits {
			fmt.Printf("  - %s\n", b)
		}
	}
	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	username := fs.String("username", "", "username")
	mail := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	phone := fs.String("phone", "", "phone number")
	address := fs.String("address", "", "delivery address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.sessions.Signup(ctx, &session.SignupRequest{
		Username:    *username,
		Email:       *mail,
		Password:    *password,
		PhoneNumber: *phone,
		Address:     *address,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Welcome, %s! You are now logged in.\n", sess.Profile.Username)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.sessions.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s.\n", sess.Profile.Username)
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	sess, err := a.sessions.Resume(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotAuthenticated) {
			fmt.Println("Not logged in.")
			return nil
		}
		return err
	}

	if err := a.sessions.Logout(ctx, sess); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	sess, err := a.sessions.Resume(ctx)
	if err != nil {
		return err
	}

	if len(args) > 0 && args[0] == "update" {
		fs := flag.NewFlagSet("profile update", flag.ContinueOnError)
		username := fs.String("username", "", "new username")
		mail := fs.String("email", "", "new email address")
		password := fs.String("password", "", "new password")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		profile, err := a.sessions.UpdateProfile(ctx, sess, &session.UpdateProfileRequest{
			Username: *username,
			Email:    *mail,
			Password: *password,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated: %s <%s>\n", profile.Username, profile.Email)
		return nil
	}

	p := sess.Profile
	fmt.Printf("Username: %s\nEmail:    %s\nPhone:    %s\nAddress:  %s\n",
		p.Username, p.Email, p.PhoneNumber, p.Address)
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	store := a.cartStore(ctx)

	if len(args) == 0 {
		return a.showCart(ctx, store)
	}

	switch args[0] {
	case "add":
		id, err := parseID(args[1:], "product id")
		if err != nil {
			return err
		}
		product, err := a.catalog.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := store.Add(ctx, product); err != nil {
			if errors.Is(err, cart.ErrAlreadyInCart) {
				fmt.Println("Product is already in the cart.")
				return nil
			}
			return err
		}
		fmt.Println("Added to cart!!")
		return nil

	case "remove":
		id, err := parseID(args[1:], "product id")
		if err != nil {
			return err
		}
		if err := store.Remove(ctx, id); err != nil {
			return err
		}
		fmt.Println("Item removed successfully!")
		return nil

	case "qty":
		if len(args) < 3 {
			return fmt.Errorf("usage: ricecart cart qty <product-id> <n>")
		}
		id, err := parseID(args[1:2], "product id")
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity: %s", args[2])
		}
		if err := store.SetQuantity(ctx, id, quantity); err != nil {
			return err
		}
		if quantity < 1 {
			fmt.Println("Item removed successfully!")
		} else {
			fmt.Println("Quantity updated successfully!")
		}
		return nil

	default:
		return fmt.Errorf("unknown cart command: %s", args[0])
	}
}

func (a *app) cmdOrders(ctx context.Context) error {
	sess, err := a.sessions.Resume(ctx)
	if err != nil {
		return err
	}

	items, err := a.orders.History(ctx, sess)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}
	for _, item := range items {
		name := fmt.Sprintf("Product #%d", item.ProductID)
		total := "N/A"
		if item.Product != nil {
			name = item.Product.Name
			total = strconv.FormatInt(item.Product.Prize*int64(item.Quantity), 10)
		}
		fmt.Printf("%s  x%d  %s rs  (%s)\n", name, item.Quantity, total, item.PurchasedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) cmdBuy(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: ricecart buy <product-id|all>")
	}

	// Checkout requires an authenticated session: the payment endpoints
	// are bearer-authed and the verify payload carries the user id.
	sess, err := a.sessions.Resume(ctx)
	if err != nil {
		return err
	}
	store := cart.NewRemoteStore(a.api, a.catalog, sess, a.logger)

	scope := checkout.ScopeAll()
	if !strings.EqualFold(args[0], "all") {
		id, err := parseID(args, "product id")
		if err != nil {
			return err
		}
		scope = checkout.ScopeItem(id)
	}

	co, err := a.checkout.Checkout(ctx, sess, store, scope)
	if err != nil {
		return err
	}

	fmt.Printf("Payment successful! Receipt reference: %s\n", co.Reference)
	return nil
}

func (a *app) cmdContact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	name := fs.String("name", "", "your name")
	mail := fs.String("email", "", "your email address")
	message := fs.String("message", "", "your message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mailer := email.NewService(a.config, a.logger)
	if err := mailer.SendContactMessage(ctx, &email.Message{
		Name:  *name,
		Email: *mail,
		Body:  *message,
	}); err != nil {
		return err
	}

	fmt.Println("Message sent successfully")
	return nil
}

// cartStore picks the cart representation for this invocation: the remote
// cart when a session can be resumed, the anonymous local cart otherwise.
// The two are independent and never merged.
func (a *app) cartStore(ctx context.Context) cart.Store {
	sess, err := a.sessions.Resume(ctx)
	if err != nil {
		return cart.NewLocalStore(a.store, a.config.LocalStore.CartTTL, a.logger)
	}
	return cart.NewRemoteStore(a.api, a.catalog, sess, a.logger)
}

// showCart prints the cart contents
func (a *app) showCart(ctx context.Context, store cart.Store) error {
	items, err := store.Load(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("Your cart is empty.")
		return nil
	}

	var total int64
	for _, item := range items {
		name := "Product Not Found"
		price := "N/A"
		if item.Product != nil {
			name = item.Product.Name
			price = strconv.FormatInt(item.Subtotal(), 10)
		}
		fmt.Printf("#%d  %s  x%d  %s rs\n", item.ProductID, name, item.Quantity, price)
		total += item.Subtotal()
	}
	fmt.Printf("Total: %d rs\n", total)
	return nil
}

// parseID reads a numeric id from the front of args
func parseID(args []string, what string) (uint, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing %s", what)
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", what, args[0])
	}
	return uint(id), nil
}

// notice converts an error into the single user-facing message the web
// storefront would have shown as an alert
func notice(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	if errors.Is(err, session.ErrNotAuthenticated) {
		return "Authentication token missing. Please log in again."
	}
	return err.Error()
}
