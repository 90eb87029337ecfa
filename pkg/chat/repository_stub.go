package chat

import "context"

type RepositoryStub struct {
	nextId   int
	messages []Message
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (s *RepositoryStub) Append(ctx context.Context, message Message) (Message, error) {
	s.nextId++
	message.Id = s.nextId
	s.messages = append(s.messages, message)
	return message, nil
}

func (s *RepositoryStub) ListForTrip(ctx context.Context, tripId string, limit int) ([]Message, error) {
	var matches []Message
	for _, message := range s.messages {
		if message.TripId == tripId {
			matches = append(matches, message)
		}
	}
	if len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}
	return matches, nil
}

func (s *RepositoryStub) Cleanup() {
	s.messages = nil
	s.nextId = 0
}
