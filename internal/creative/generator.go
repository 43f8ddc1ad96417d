package creative

import (
	"context"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
)

// Generator produces the creative pack for one product. GenerateAdCopy
// failing is fatal to a campaign run; GenerateProductImage failing is not —
// the caller degrades to text-only delivery.
type Generator interface {
	GenerateAdCopy(ctx context.Context, product model.Product, brandName string) (string, error)
	GenerateProductImage(ctx context.Context, product model.Product, brandName string) (string, error)
}
