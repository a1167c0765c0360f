package memstore

import (
	"testing"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/repositories/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repositories.Store {
		return New()
	}, storetest.Options{Concurrency: 20})
}
