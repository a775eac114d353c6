package lookup

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type inspectRequest struct {
	ctx     context.Context
	address string
	result  *BatchItem
	wg      *sync.WaitGroup
}

type poolGroupRequest struct {
	ctx     context.Context
	cancel  context.CancelFunc
	results []BatchItem
	wg      *sync.WaitGroup
	pool    *ants.PoolWithFunc
}

func (p *poolGroupRequest) Do(index int, address string) error {
	select {
	case <-p.ctx.Done():
		return ErrContextIsClosed
	default:
	}

	p.wg.Add(1)

	req := &inspectRequest{
		ctx:     p.ctx,
		address: address,
		result:  &p.results[index],
		wg:      p.wg,
	}

	if err := p.pool.Invoke(req); err != nil {
		p.wg.Done()
		p.cancel()

		return fmt.Errorf("cannot schedule a task: %w", err)
	}

	return nil
}

func (p *poolGroupRequest) Wait() []BatchItem {
	p.wg.Wait()
	p.cancel()

	return p.results
}

func newPoolGroupRequest(ctx context.Context, addresses []string, pool *ants.PoolWithFunc) *poolGroupRequest {
	ctx, cancel := context.WithCancel(ctx)
	results := make([]BatchItem, len(addresses))

	for i, v := range addresses {
		results[i].Address = v
	}

	return &poolGroupRequest{
		ctx:     ctx,
		cancel:  cancel,
		results: results,
		wg:      &sync.WaitGroup{},
		pool:    pool,
	}
}
