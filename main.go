package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"helpdesk/app/config"
	"helpdesk/app/server"
	"helpdesk/app/service/catalog"
	"helpdesk/app/service/conversation"
	"helpdesk/app/service/memory"
	"helpdesk/app/service/tools"
	"helpdesk/app/service/transcript"
	"helpdesk/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	cliMode := flag.Bool("cli", false, "run an interactive chat loop instead of the HTTP server")
	flag.Parse()

	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, catalog.New)
	do.Provide(di, memory.New)
	do.Provide(di, tools.New)
	do.Provide(di, transcript.New)
	do.Provide(di, conversation.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	group, groupCtx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		do.MustInvoke[*transcript.Service](di).Run(groupCtx)
		return nil
	})

	if *cliMode {
		group.Go(func() error {
			defer cancel()
			return runCLI(groupCtx, do.MustInvoke[*conversation.Service](di))
		})
	} else {
		group.Go(func() error {
			return do.MustInvoke[*server.Server](di).Run(groupCtx)
		})
	}

	if err = group.Wait(); err != nil {
		slog.Error("Service stopped", "error", err)
	}
}

func runCLI(ctx context.Context, svc *conversation.Service) error {
	conversationID := uuid.NewString()

	fmt.Println("Support chat (type 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") {
			return nil
		}

		reply, err := svc.ProcessMessage(ctx, conversationID, text)
		if err != nil {
			slog.Error("Failed to process message", "error", err)
			continue
		}

		fmt.Println("Bot:", reply.Text)
	}
}
