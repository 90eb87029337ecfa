package activity

import "context"

type ClientStub struct {
	Activities map[string]Activity
}

func NewClientStub() *ClientStub {
	return &ClientStub{Activities: map[string]Activity{}}
}

func (s *ClientStub) Search(ctx context.Context, destination string, category string) ([]Activity, error) {
	var results []Activity
	for _, activity := range s.Activities {
		if category == "" || activity.Category == category {
			results = append(results, activity)
		}
	}
	return results, nil
}

func (s *ClientStub) Get(ctx context.Context, activityId string) (Activity, error) {
	activity, ok := s.Activities[activityId]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return activity, nil
}

func (s *ClientStub) Cleanup() {
	s.Activities = map[string]Activity{}
}
