package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rebornclient/reborn-go/internal/bookmarks"
	"github.com/rebornclient/reborn-go/internal/client"
	"github.com/rebornclient/reborn-go/internal/config"
	"github.com/rebornclient/reborn-go/internal/event"
	gonet "github.com/rebornclient/reborn-go/internal/net"
	"github.com/rebornclient/reborn-go/internal/protocol"
	"github.com/rebornclient/reborn-go/internal/scripting"
	"github.com/rebornclient/reborn-go/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(addr string) {
	fmt.Println()
	fmt.Println("  ┌───────────────────────────────────────────┐")
	fmt.Println("  │             rebornctl  v0.1.0              │")
	fmt.Println("  │      Reborn/Graal protocol client demo     │")
	fmt.Println("  └───────────────────────────────────────────┘")
	fmt.Println()
	fmt.Printf("  Target: %s\n\n", addr)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main client logic ──────────────────────────────────────────────

func run() error {
	var (
		cfgPath       = flag.String("config", "config/client.toml", "path to client.toml")
		account       = flag.String("account", "", "account name")
		password      = flag.String("password", "", "account password")
		hostOverride  = flag.String("host", "", "override connection.host from config")
		portOverride  = flag.Int("port", 0, "override connection.port from config")
		macrosDir     = flag.String("macros", "macros", "directory of .lua macro scripts")
		bookmarksPath = flag.String("bookmarks", "bookmarks.yaml", "saved server list path")
	)
	flag.Parse()

	if p := os.Getenv("REBORNCTL_CONFIG"); p != "" {
		*cfgPath = p
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *hostOverride != "" {
		cfg.Connection.Host = *hostOverride
	}
	if *portOverride != 0 {
		cfg.Connection.Port = *portOverride
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	addr := fmt.Sprintf("%s:%d", cfg.Connection.Host, cfg.Connection.Port)
	printBanner(addr)

	if *account == "" {
		return fmt.Errorf("-account is required")
	}

	bmList, err := bookmarks.Load(*bookmarksPath)
	if err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}
	bmList.Add(bookmarks.Entry{Name: addr, Host: cfg.Connection.Host, Port: cfg.Connection.Port, Account: *account})
	if err := bmList.Save(*bookmarksPath); err != nil {
		log.Warn("save bookmarks failed", zap.Error(err))
	}

	printSection("connecting")
	clientCfg := client.Config{
		Addr:           addr,
		Generation:     gonet.Generation(cfg.Connection.Generation),
		ClientType:     protocol.ClientType(cfg.Connection.ClientType),
		PreferCompress: cfg.Connection.PreferCompress,
		Logger:         log,
		Reconnect: client.ReconnectPolicy{
			Enabled:    cfg.Reconnect.Enabled,
			MaxRetries: cfg.Reconnect.MaxRetries,
			Backoff:    cfg.Reconnect.Backoff,
			MaxBackoff: cfg.Reconnect.MaxBackoff,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Connection.HandshakeTimeout)
	c, err := client.Dial(ctx, clientCfg, *account, *password)
	cancel()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer c.Disconnect()
	printOK(fmt.Sprintf("logged in as %s", *account))
	fmt.Println()

	subscribeConsoleEvents(c)

	engine, err := scripting.NewEngine(*macrosDir, c, log)
	if err != nil {
		return fmt.Errorf("scripting engine: %w", err)
	}
	defer engine.Close()

	printSection("ready")
	printReady("commands: say <text> | move <dx> <dy> <dir> | macro <name> | quit")
	fmt.Println()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	commands := make(chan string)
	go readCommands(commands)

	updateTicker := time.NewTicker(100 * time.Millisecond)
	defer updateTicker.Stop()

	for {
		select {
		case <-updateTicker.C:
			c.Update()
		case line, ok := <-commands:
			if !ok {
				return nil
			}
			if quit := dispatchCommand(c, engine, log, line); quit {
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			return nil
		}
	}
}

func subscribeConsoleEvents(c *client.Client) {
	event.Subscribe(c.Bus(), func(e event.ChatMessage) {
		fmt.Printf("  [chat] player %d: %s\n", e.PlayerID, e.Message)
	})
	event.Subscribe(c.Bus(), func(e event.PlayerAdded) {
		fmt.Printf("  [player] %d entered the level\n", e.ID)
	})
	event.Subscribe(c.Bus(), func(e event.LevelEntered) {
		fmt.Printf("  [level] entered %s\n", e.Name)
	})
	event.Subscribe(c.Bus(), func(e event.Disconnected) {
		fmt.Printf("  [disconnected] %s\n", e.Reason)
	})
	event.Subscribe(c.Bus(), func(event.Reconnected) {
		fmt.Println("  [reconnected]")
	})
}

func readCommands(out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		out <- scanner.Text()
	}
}

// dispatchCommand runs one console command, returning true if the caller
// should exit.
func dispatchCommand(c *client.Client, engine *scripting.Engine, log *zap.Logger, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "say":
		if err := c.Say(strings.TrimPrefix(line, fields[0]+" ")); err != nil {
			log.Warn("say failed", zap.Error(err))
		}
	case "move":
		if len(fields) < 4 {
			fmt.Println("  usage: move <dx> <dy> <dir>")
			return false
		}
		dx, _ := strconv.ParseFloat(fields[1], 64)
		dy, _ := strconv.ParseFloat(fields[2], 64)
		dirN, _ := strconv.Atoi(fields[3])
		if err := c.Move(dx, dy, world.Direction(dirN)); err != nil {
			log.Warn("move failed", zap.Error(err))
		}
	case "macro":
		if len(fields) < 2 {
			fmt.Println("  usage: macro <name>")
			return false
		}
		if err := engine.CallMacro(fields[1]); err != nil {
			log.Warn("macro failed", zap.Error(err))
		}
	default:
		fmt.Printf("  unknown command %q\n", fields[0])
	}
	return false
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
