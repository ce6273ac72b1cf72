package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"churchportal/internal/apiclient"
	"churchportal/internal/auth"
	"churchportal/internal/config"
	"churchportal/internal/hooks"
	"churchportal/internal/logger"
	"churchportal/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	configFile := os.Getenv("CHURCH_CONFIG")
	cfg := config.Load(configFile)
	appLogger := logger.Init(cfg.Log)

	tokens := auth.StaticToken(cfg.API.Token)
	session, err := auth.SessionFromTokenSource(tokens)
	if err != nil {
		log.Fatalf("Failed to establish session: %v", err)
	}

	api := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTokenSource(tokens),
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(appLogger),
	)
	client := hooks.New(service.New(api),
		hooks.WithSession(session),
		hooks.WithCacheConfig(cfg.Cache),
		hooks.WithLogger(appLogger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{client: client, out: os.Stdout, in: os.Stdin}
	if err := app.run(ctx, os.Args[1:]); err != nil {
		if err == errUsage {
			printUsage()
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Church Portal command line")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  churchctl whoami")
	fmt.Println("  churchctl members list [-family F] [-level L] [-status S]")
	fmt.Println("  churchctl members search <term>")
	fmt.Println("  churchctl members search -live        Search as you type, one term per line")
	fmt.Println("  churchctl members stats")
	fmt.Println("  churchctl attendance stats [-family F]")
	fmt.Println("  churchctl testimonies pending|approved")
	fmt.Println("  churchctl testimonies approve <id>")
	fmt.Println("  churchctl testimonies submit -title T -author A -content C [-email E]")
	fmt.Println("  churchctl songs list <choir-id>")
	fmt.Println("  churchctl songs upload -choir ID -title T [-lyrics L] [-audio FILE]")
	fmt.Println("  churchctl gallery upload -title T -type image|video -file FILE")
	fmt.Println("  churchctl blog list [-category C]")
	fmt.Println("  churchctl password forgot <email>")
	fmt.Println("  churchctl password reset -token TOKEN")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  CHURCH_CONFIG      YAML config file (default: church.yaml)")
	fmt.Println("  CHURCH_API_URL     Backend base URL (default: http://localhost:5000/api)")
	fmt.Println("  CHURCH_API_TOKEN   Bearer token of the signed-in member")
}
