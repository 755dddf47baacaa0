package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/zynqcloud/go-s3-client/internal/reqfactory"
	"github.com/zynqcloud/go-s3-client/internal/transport"
)

// fakeEasy returns a canned status/error without touching the network.
type fakeEasy struct {
	status int
	err    error
}

func (f *fakeEasy) Do(ctx context.Context) (int, error) { return f.status, f.err }

// fakeFactory hands out fakeEasy values, recording every config it saw.
type fakeFactory struct {
	mu        sync.Mutex
	status    int
	err       error
	newErr    error
	configs   []transport.EasyConfig
	callCount int
}

func (f *fakeFactory) NewEasy(cfg transport.EasyConfig) (transport.Easy, error) {
	f.mu.Lock()
	f.configs = append(f.configs, cfg)
	f.callCount++
	f.mu.Unlock()
	if f.newErr != nil {
		return nil, f.newErr
	}
	return &fakeEasy{status: f.status, err: f.err}, nil
}

func reqfactoryLimits() reqfactory.Limits {
	return reqfactory.Limits{}
}

func preparedRequest(id string) *reqfactory.Prepared {
	return &reqfactory.Prepared{
		RequestID: id,
		Method:    "GET",
		URL:       "https://s3.example.com/bucket/key",
	}
}

var errBoom = errors.New("boom")
