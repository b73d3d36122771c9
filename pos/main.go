package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pharmapos/domain"
	"pharmapos/internal/apiclient"
	"pharmapos/internal/config"
	"pharmapos/internal/receipt"
	"pharmapos/internal/shell"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(os.Stderr, "pos: ", log.LstdFlags)

	client, err := apiclient.New(cfg.APIBaseURL, apiclient.WithLogger(logger))
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}

	pharmacy := domain.Pharmacy{Name: cfg.PharmacyName, Address: cfg.PharmacyAddress, Phone: cfg.PharmacyPhone}
	printer := receipt.NewRenderer(client, receiptTarget(cfg), pharmacy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second interrupt falls through to the default handler.
		<-ctx.Done()
		stop()
	}()

	app := shell.New(client, printer, os.Stdin, os.Stdout, logger)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("pos: %v", err)
	}
}

func receiptTarget(cfg config.Config) receipt.Target {
	switch cfg.ReceiptTarget {
	case "pdf":
		return &receipt.PDFTarget{Dir: cfg.ReceiptDir, Bin: cfg.BrowserBin}
	case "thermal":
		if cfg.ThermalAddress == "" {
			log.Printf("RECEIPT_TARGET=thermal without THERMAL_ADDRESS, receipts disabled")
			return receipt.DiscardTarget{}
		}
		return receipt.NewThermalTarget(cfg.ThermalAddress, cfg.ThermalWidth)
	case "none":
		return receipt.DiscardTarget{}
	case "window":
	default:
		log.Printf("unknown RECEIPT_TARGET %q, using window", cfg.ReceiptTarget)
	}
	return receipt.NewWindowTarget(cfg.ReceiptDir)
}
