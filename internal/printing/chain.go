package printing

import (
	"context"
	"log/slog"

	"barberia-backend/internal/receipt"
)

// Outcome is the terminal state of one delivery attempt chain.
type Outcome string

const (
	// OutcomePrinted means the local print service produced paper output
	// and pulsed the cash drawer itself.
	OutcomePrinted Outcome = "printed"
	// OutcomeDownloaded means the document goes back to the client for the
	// operating-system print dialog; best-effort success, no paper
	// confirmation is obtainable.
	OutcomeDownloaded Outcome = "downloaded"
	// OutcomeFailed means every strategy was exhausted and the operator
	// must print manually.
	OutcomeFailed Outcome = "failed"
)

// Result reports how a receipt left the system.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Via     string  `json:"via"`
	// DrawerHandled is true when the winning strategy already opened the
	// drawer; callers must then skip the standalone open-drawer command.
	DrawerHandled bool   `json:"drawerHandled"`
	Warning       string `json:"warning,omitempty"`
}

// Strategy is one way of getting a rendered receipt to the operator.
type Strategy interface {
	Name() string
	Deliver(ctx context.Context, doc receipt.Document) (Result, error)
}

// Chain tries strategies in strict order until one succeeds. It replaces
// the source's nested recovery blocks with an explicit ordered list.
type Chain struct {
	Strategies []Strategy
	Logger     *slog.Logger
}

// NewChain wires the standard order: print bridge, then the browser print
// dialog fallback, then the manual notice.
func NewChain(client *Client, logger *slog.Logger) *Chain {
	return &Chain{
		Strategies: []Strategy{
			&PrintServiceStrategy{Client: client},
			&DialogStrategy{},
		},
		Logger: logger,
	}
}

func (c *Chain) Deliver(ctx context.Context, doc receipt.Document) Result {
	for _, s := range c.Strategies {
		res, err := s.Deliver(ctx, doc)
		if err == nil {
			return res
		}
		if c.Logger != nil {
			c.Logger.Warn("receipt delivery strategy failed", "strategy", s.Name(), "invoice", doc.InvoiceNumber, "err", err)
		}
	}
	// Manual fallback: the sale is complete either way; the operator is
	// told the drawer will not open on its own.
	return Result{
		Outcome:       OutcomeFailed,
		Via:           "manual",
		DrawerHandled: false,
		Warning:       "Impresora no disponible: imprime el documento manualmente, el cajón no se abrirá solo",
	}
}

// PrintServiceStrategy posts the receipt to the operator-machine bridge.
type PrintServiceStrategy struct {
	Client *Client
}

func (s *PrintServiceStrategy) Name() string { return "print-service" }

func (s *PrintServiceStrategy) Deliver(ctx context.Context, doc receipt.Document) (Result, error) {
	if err := s.Client.Print(ctx, doc); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomePrinted, Via: s.Name(), DrawerHandled: true}, nil
}

// DialogStrategy hands the document back for the OS print dialog. It cannot
// fail on the server side, so it terminates the chain when reached.
type DialogStrategy struct{}

func (s *DialogStrategy) Name() string { return "os-dialog" }

func (s *DialogStrategy) Deliver(ctx context.Context, doc receipt.Document) (Result, error) {
	return Result{
		Outcome:       OutcomeDownloaded,
		Via:           s.Name(),
		DrawerHandled: false,
		Warning:       "Impresión directa no disponible: usa el diálogo de impresión del sistema",
	}, nil
}
