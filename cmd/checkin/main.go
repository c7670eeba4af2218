package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"club_checkin_backend/internal/services"
	"club_checkin_backend/internal/client"
	"club_checkin_backend/pkg/utils"
)

// command is one menu entry. Dispatch goes through the commands table only.
type command struct {
	key   string
	label string
	run   func(a *app, ctx context.Context) error
}

type app struct {
	api     *client.Client
	session *client.Session
	in      *bufio.Reader
	// lastCapture holds the most recent simulated scan so it can be reused on registration.
	lastCapture string
}

var errExit = errors.New("exit")

var commands = []command{
	{"1", "Login", (*app).login},
	{"2", "Register staff account", (*app).register},
	{"3", "Verify session", (*app).verify},
	{"4", "List clients", (*app).listClients},
	{"5", "Capture fingerprint", (*app).capture},
	{"6", "Register client", (*app).registerClient},
	{"7", "Identify (check-in)", (*app).identify},
	{"8", "Logout", (*app).logout},
	{"9", "Exit", func(*app, context.Context) error { return errExit }},
}

func main() {
	baseURL := utils.Getenv("CHECKIN_API_URL", "http://127.0.0.1:3005")
	a := &app{
		api:     client.New(baseURL, nil),
		session: &client.Session{},
		in:      bufio.NewReader(os.Stdin),
	}

	table := make(map[string]command, len(commands))
	for _, cmd := range commands {
		table[cmd.key] = cmd
	}

	for {
		fmt.Println("==== Club Check-in ====", baseURL)
		for _, cmd := range commands {
			fmt.Printf("%s) %s\n", cmd.key, cmd.label)
		}
		choice := a.prompt("Select option")

		cmd, ok := table[choice]
		if !ok {
			fmt.Println("Invalid option")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := cmd.run(a, ctx)
		cancel()
		if errors.Is(err, errExit) {
			fmt.Println("Bye")
			return
		}
		if err != nil {
			fmt.Println("Error:", err)
		}
		fmt.Println()
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label + ": ")
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (a *app) login(ctx context.Context) error {
	session, err := a.api.Login(ctx, a.prompt("Username or email"), a.prompt("Password"))
	if err != nil {
		return err
	}
	a.session = session
	fmt.Printf("Welcome %s (%s), session valid until %s\n", session.User.Username, session.User.Role, session.ExpiresAt.Format(time.RFC1123))
	return nil
}

func (a *app) register(ctx context.Context) error {
	user, err := a.api.Register(ctx, a.prompt("Username"), a.prompt("Email"), a.prompt("Password"))
	if err != nil {
		return err
	}
	fmt.Printf("Account %d created for %s. You can log in now.\n", user.ID, user.Username)
	return nil
}

func (a *app) verify(ctx context.Context) error {
	res, err := a.api.Verify(ctx, a.session)
	if err != nil {
		return err
	}
	fmt.Printf("Token valid for %s (expires %s)\n", res.User.Username, res.User.ExpiresAt.Time.Format(time.RFC1123))
	return nil
}

func (a *app) listClients(ctx context.Context) error {
	clients, err := a.api.ListClients(ctx, a.session)
	if err != nil {
		return err
	}
	fmt.Printf("%d clients\n", len(clients))
	for _, cl := range clients {
		lastVisit := "never"
		if cl.LastVisitAt != nil {
			lastVisit = cl.LastVisitAt.Local().Format(time.RFC1123)
		}
		hash := "(no fingerprint)"
		if cl.BiometricHash != nil {
			hash = *cl.BiometricHash
		}
		fmt.Printf("#%d %-30s %-11s tel %-14s last visit %s  %s\n",
			cl.ID, cl.Email, strings.ToUpper(string(cl.Status)), cl.Phone, lastVisit, hash)
	}
	return nil
}

func (a *app) capture(context.Context) error {
	a.lastCapture = client.CaptureFingerprint()
	fmt.Println("Captured:", a.lastCapture)
	return nil
}

func (a *app) registerClient(ctx context.Context) error {
	if a.lastCapture == "" {
		return errors.New("capture a fingerprint first")
	}
	req := services.ClientRequest{
		Names:         optional(a.prompt("Nombres (optional)")),
		Surnames:      optional(a.prompt("Apellidos (optional)")),
		Email:         a.prompt("Correo"),
		Phone:         a.prompt("Telefono"),
		DateOfBirth:   a.prompt("Fecha de nacimiento (YYYY-MM-DD)"),
		Sex:           optional(a.prompt("Sexo (optional)")),
		Status:        a.prompt("Estatus [activo|vip|suspendido]"),
		BiometricHash: optional(a.lastCapture),
	}
	created, err := a.api.CreateClient(ctx, a.session, req)
	if err != nil {
		return err
	}
	a.lastCapture = ""
	fmt.Printf("Client #%d registered (%s)\n", created.ID, created.Email)
	return nil
}

func (a *app) identify(ctx context.Context) error {
	hash := a.prompt("Fingerprint hash (empty = last capture)")
	if hash == "" {
		hash = a.lastCapture
	}
	ident, err := a.api.Identify(ctx, a.session, hash)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			fmt.Println("ACCESS DENIED: fingerprint not registered")
			return nil
		}
		return err
	}
	fmt.Printf("WELCOME %s | status %s | visit recorded at %s\n",
		ident.Email, strings.ToUpper(string(ident.Status)), ident.LastVisitAt.Local().Format(time.RFC1123))
	return nil
}

func (a *app) logout(context.Context) error {
	a.session.Logout()
	a.lastCapture = ""
	fmt.Println("Session cleared")
	return nil
}
