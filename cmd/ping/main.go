package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/gujitrio/ping/internal/fakeapi"
	"github.com/gujitrio/ping/internal/session"
	"github.com/gujitrio/ping/internal/tui"
	"github.com/gujitrio/ping/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	godotenv.Load() //nolint:errcheck // a missing .env is fine

	apiURL := os.Getenv("PING_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("ping " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		case "demo":
			return runDemo()
		}
	}

	store, err := session.NewFileStore()
	if err != nil {
		return err
	}
	return runTUI(apiURL, store)
}

func runTUI(apiURL string, store session.Store) error {
	c := client.New(apiURL, store)

	app := tui.NewApp(c, store)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runDemo serves the seeded in-process API on a loopback port and starts
// the TUI against it, already logged in as the demo account.
func runDemo() error {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("start demo api: %w", err)
	}
	srv := &http.Server{Handler: fakeapi.New()}
	go srv.Serve(listener) //nolint:errcheck
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx) //nolint:errcheck
	}()

	apiURL := "http://" + listener.Addr().String()
	store := session.NewMemory()
	c := client.New(apiURL, store)

	sess, err := c.Login(context.Background(), client.LoginRequest{
		UsernameOrEmail: fakeapi.DemoUsername,
		Password:        fakeapi.DemoPassword,
	})
	if err != nil {
		return fmt.Errorf("demo login: %w", err)
	}
	if err := store.Save(*sess); err != nil {
		return err
	}

	return runTUI(apiURL, store)
}

func runLogout() error {
	store, err := session.NewFileStore()
	if err != nil {
		return err
	}
	if store.Token() == "" {
		fmt.Println("이미 로그아웃 상태입니다.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("로그아웃되었습니다.")
	return nil
}

func printHelp() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B00")).
		Bold(true).
		Render("P I N G !")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("긴급 상황을 위한 개인 안전 서비스")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"ping", "로그인하고 대시보드 열기 (interactive TUI)"},
		{"ping demo", "내장 데모 서버로 체험하기"},
		{"ping logout", "저장된 세션 지우기"},
		{"ping --version", "버전 확인"},
		{"ping help", "이 도움말"},
	}

	fmt.Printf("\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-16s", c.cmd)), descStyle.Render(c.desc))
	}
	env := descStyle.Render("PING_API_URL (기본 http://localhost:8080), PING_TOKEN")
	fmt.Printf("\n  %s\n\n", env)
}
