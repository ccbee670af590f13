package service

import (
	"errors"
	"log/slog"
	"math/rand"

	"github.com/school-finance-ledger/internal/config"
	"github.com/school-finance-ledger/internal/domain/receipt"
)

// ErrPrinterCommunication indicates a failed print attempt
var ErrPrinterCommunication = errors.New("printer communication error")

// Printer sends a receipt to printing hardware
type Printer interface {
	Print(rec *receipt.Receipt, copies int) error
}

// SimulatedPrinter stands in for real printer hardware. It fails a
// configured fraction of attempts so callers exercise their failure paths.
type SimulatedPrinter struct {
	failureRate float64
	rng         *rand.Rand
	logger      *slog.Logger
}

// NewSimulatedPrinter creates a printer simulation. The random source is
// injected so tests can pin the outcome.
func NewSimulatedPrinter(cfg *config.PrinterConfig, rng *rand.Rand, logger *slog.Logger) *SimulatedPrinter {
	return &SimulatedPrinter{
		failureRate: cfg.FailureRate,
		rng:         rng,
		logger:      logger,
	}
}

// Print simulates sending the receipt to the printer
func (p *SimulatedPrinter) Print(rec *receipt.Receipt, copies int) error {
	p.logger.Info("Printing receipt",
		"receipt_number", rec.ReceiptNumber,
		"student_name", rec.StudentName,
		"total_amount", rec.TotalAmount.String(),
		"copies", copies,
	)

	if p.rng.Float64() < p.failureRate {
		return ErrPrinterCommunication
	}

	return nil
}
