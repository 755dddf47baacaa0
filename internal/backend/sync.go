package backend

import (
	"context"

	"github.com/zynqcloud/go-s3-client/internal/reqfactory"
	"github.com/zynqcloud/go-s3-client/internal/transport"
)

// Sync drives one Prepared request at a time on the calling goroutine.
type Sync struct {
	factory transport.Factory
}

// NewSync builds a Sync backend over factory.
func NewSync(factory transport.Factory) *Sync {
	return &Sync{factory: factory}
}

func (s *Sync) Execute(ctx context.Context, req *reqfactory.Prepared, limits reqfactory.Limits) Result {
	easy, err := s.factory.NewEasy(toEasyConfig(req, limits))
	if err != nil {
		return resultFor(req.RequestID, 0, err)
	}
	status, err := easy.Do(ctx)
	return resultFor(req.RequestID, status, err)
}

func (s *Sync) Close() {}
