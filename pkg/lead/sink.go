package lead

import "context"

// Sink receives every accepted lead.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, l Lead) error
}

// RepositorySink adapts a Repository into a Sink.
type RepositorySink struct {
	repo Repository
	name string
}

func NewRepositorySink(name string, repo Repository) *RepositorySink {
	if name == "" {
		name = "repository"
	}
	return &RepositorySink{repo: repo, name: name}
}

func (s *RepositorySink) Name() string { return s.name }

func (s *RepositorySink) Deliver(ctx context.Context, l Lead) error {
	return s.repo.Save(ctx, l)
}

// SinkFunc lets a plain function act as a Sink.
type SinkFunc struct {
	Label string
	Fn    func(ctx context.Context, l Lead) error
}

func (f SinkFunc) Name() string { return f.Label }

func (f SinkFunc) Deliver(ctx context.Context, l Lead) error { return f.Fn(ctx, l) }
