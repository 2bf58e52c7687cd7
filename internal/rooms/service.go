package rooms

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("room not found")
	ErrFull     = errors.New("room is full")
)

const defaultCapacity = 8

// Service encapsulates study room business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Create(ctx context.Context, ownerSub, name, topic string, capacity int) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("room name is required")
	}
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	room := &Room{
		Name:     name,
		Topic:    strings.TrimSpace(topic),
		OwnerSub: ownerSub,
		Capacity: capacity,
		Members:  []string{ownerSub},
	}
	return s.repo.Insert(ctx, room)
}

func (s *Service) List(ctx context.Context) ([]Room, error) {
	return s.repo.List(ctx, 50)
}

// Join adds the subject to the room, tolerating repeat joins.
func (s *Service) Join(ctx context.Context, id, sub string) (*Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrNotFound
	}
	for _, m := range room.Members {
		if m == sub {
			return room, nil
		}
	}
	if len(room.Members) >= room.Capacity {
		return nil, ErrFull
	}
	if err := s.repo.AddMember(ctx, id, sub); err != nil {
		return nil, err
	}
	room.Members = append(room.Members, sub)
	return room, nil
}
