package pdf

import (
	"context"

	invoicedomain "github.com/lunelaser/lunebill/internal/invoice/domain"
	"go.uber.org/fx"
)

// Provider renders a persisted invoice into a PDF document.
type Provider interface {
	RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice) ([]byte, error)
}

var Module = fx.Module("providers.pdf",
	fx.Provide(New),
)
