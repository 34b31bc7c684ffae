package interfaces

import (
	"context"

	"fx-rates-service/internal/domain/entities"
)

// RateSource performs exactly one fetch from the external provider.
// Implementations never panic and never return a partially valid table.
type RateSource interface {
	Fetch(ctx context.Context) entities.FetchOutcome
}

// Clock abstracts wall-clock time so freshness can be tested deterministically.
type Clock interface {
	NowMillis() int64
}
