package textgensvc

import (
	"context"
	"sync"

	"github.com/edusight/edusight/core"
)

// DummyService replays scripted replies, for development and tests.
type DummyService struct {
	mu      sync.Mutex
	replies []string
	err     error
	Prompts []string
}

var _ core.TextGenerator = (*DummyService)(nil)

func NewDummyService(replies []string, err error) *DummyService {
	return &DummyService{replies: replies, err: err}
}

func (svc *DummyService) GenerateText(ctx context.Context, system, user string) (string, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.Prompts = append(svc.Prompts, user)
	if svc.err != nil {
		return "", svc.err
	}
	if len(svc.replies) == 0 {
		return "", nil
	}
	reply := svc.replies[0]
	if len(svc.replies) > 1 {
		svc.replies = svc.replies[1:]
	}
	return reply, nil
}
