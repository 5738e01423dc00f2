package services

import (
	"github.com/trymedating/trymed/internal/events"
	"github.com/trymedating/trymed/internal/models"
	"github.com/trymedating/trymed/internal/repositories"
	"github.com/trymedating/trymed/pkg/errors"
)

type ConnectionService struct {
	repo     *repositories.ConnectionRepository
	userRepo *repositories.UserRepository
	bus      events.Publisher
}

func NewConnectionService(repo *repositories.ConnectionRepository, userRepo *repositories.UserRepository, bus events.Publisher) *ConnectionService {
	return &ConnectionService{
		repo:     repo,
		userRepo: userRepo,
		bus:      bus,
	}
}

// Request sends a connection request from requester to addressee. With no
// prior row one is created pending; a rejected or disconnected row flips back
// to pending (reconnect); pending or accepted rows conflict; blocked rows are
// denied outright.
func (s *ConnectionService) Request(requesterID, addresseeID uint) (*models.Connection, error) {
	if requesterID == addresseeID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot connect to yourself")
	}

	if _, err := s.userRepo.GetUserByID(addresseeID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByPair(requesterID, addresseeID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		conn := &models.Connection{
			RequesterID: requesterID,
			AddresseeID: addresseeID,
			Status:      models.ConnectionStatusPending,
		}
		if err := s.repo.Create(conn); err != nil {
			return nil, err
		}
		s.publishUpdate(conn)
		return conn, nil
	}

	switch existing.Status {
	case models.ConnectionStatusPending:
		return nil, errors.New(errors.ErrCodeConflict, "a connection request is already pending")
	case models.ConnectionStatusAccepted:
		return nil, errors.New(errors.ErrCodeConflict, "already connected")
	case models.ConnectionStatusBlocked:
		return nil, errors.New(errors.ErrCodeForbidden, "connection is blocked")
	}

	if err := existing.Apply(models.ConnectionActionReconnect, requesterID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(existing); err != nil {
		return nil, err
	}
	s.publishUpdate(existing)
	return existing, nil
}

// Act performs accept/reject/cancel/disconnect/block/unblock on behalf of
// actorID.
func (s *ConnectionService) Act(connectionID, actorID uint, action string) (*models.Connection, error) {
	conn, err := s.repo.GetByID(connectionID)
	if err != nil {
		return nil, err
	}

	if err := conn.Apply(action, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.Save(conn); err != nil {
		return nil, err
	}

	s.publishUpdate(conn)
	return conn, nil
}

// Get returns a connection, restricted to its participants
func (s *ConnectionService) Get(connectionID, userID uint) (*models.Connection, error) {
	conn, err := s.repo.GetByID(connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.Involves(userID) {
		return nil, errors.New(errors.ErrCodeForbidden, "not a party to this connection")
	}
	return conn, nil
}

// List returns the user's connections filtered by status
func (s *ConnectionService) List(userID uint, status string) ([]models.Connection, error) {
	return s.repo.ListForUser(userID, status)
}

func (s *ConnectionService) publishUpdate(conn *models.Connection) {
	for _, uid := range []uint{conn.RequesterID, conn.AddresseeID} {
		s.bus.Publish(events.Event{
			Type:   events.TypeConnectionUpdated,
			UserID: uid,
			Payload: map[string]interface{}{
				"connection_id": conn.ID,
				"status":        conn.Status,
			},
		})
	}
}
