package trip

import "context"

type RepositoryStub struct {
	trips map[string]Trip
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{trips: map[string]Trip{}}
}

func (s *RepositoryStub) Create(ctx context.Context, trip Trip) (Trip, error) {
	trip.Members = []Member{{UserId: trip.OwnerId, Role: RoleOwner, Status: StatusAccepted}}
	s.trips[trip.Id] = trip
	return trip, nil
}

func (s *RepositoryStub) Get(ctx context.Context, tripId string) (Trip, error) {
	trip, ok := s.trips[tripId]
	if !ok {
		return Trip{}, ErrTripNotFound
	}
	return trip, nil
}

func (s *RepositoryStub) Update(ctx context.Context, trip Trip) (bool, error) {
	stored, ok := s.trips[trip.Id]
	if !ok {
		return false, nil
	}
	stored.Name = trip.Name
	stored.Destination = trip.Destination
	stored.StartDate = trip.StartDate
	stored.EndDate = trip.EndDate
	s.trips[trip.Id] = stored
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, tripId string) (bool, error) {
	if _, ok := s.trips[tripId]; !ok {
		return false, nil
	}
	delete(s.trips, tripId)
	return true, nil
}

func (s *RepositoryStub) ListForUser(ctx context.Context, userId int) ([]Trip, error) {
	var trips []Trip
	for _, trip := range s.trips {
		for _, member := range trip.Members {
			if member.UserId == userId {
				trips = append(trips, trip)
				break
			}
		}
	}
	return trips, nil
}

func (s *RepositoryStub) AddMember(ctx context.Context, tripId string, member Member) error {
	trip, ok := s.trips[tripId]
	if !ok {
		return ErrTripNotFound
	}
	trip.Members = append(trip.Members, member)
	s.trips[tripId] = trip
	return nil
}

func (s *RepositoryStub) UpdateMemberStatus(ctx context.Context, tripId string, userId int, status MemberStatus) (bool, error) {
	trip, ok := s.trips[tripId]
	if !ok {
		return false, nil
	}
	for i, member := range trip.Members {
		if member.UserId == userId {
			trip.Members[i].Status = status
			s.trips[tripId] = trip
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) RemoveMember(ctx context.Context, tripId string, userId int) (bool, error) {
	trip, ok := s.trips[tripId]
	if !ok {
		return false, nil
	}
	for i, member := range trip.Members {
		if member.UserId == userId {
			trip.Members = append(trip.Members[:i], trip.Members[i+1:]...)
			s.trips[tripId] = trip
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) GetMember(ctx context.Context, tripId string, userId int) (Member, bool, error) {
	trip, ok := s.trips[tripId]
	if !ok {
		return Member{}, false, nil
	}
	for _, member := range trip.Members {
		if member.UserId == userId {
			return member, true, nil
		}
	}
	return Member{}, false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.trips = map[string]Trip{}
}
