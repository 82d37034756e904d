package cardset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/internal/database"
	"github.com/redmonkez12/athena-api/internal/logging"
	"github.com/redmonkez12/athena-api/internal/user"
)

var (
	ErrNotFound       = errors.New("card set not found")
	ErrNotOwner       = errors.New("card set belongs to another user")
	ErrNameRequired   = errors.New("name is required")
	ErrInvalidCard    = errors.New("every card needs a question and an answer")
	ErrCreatorMissing = errors.New("creator not found")
)

// Service manages card sets on behalf of their creators.
type Service struct {
	db    *bun.DB
	sets  *Repository
	users *user.Repository
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:    db,
		sets:  NewRepository(db),
		users: user.NewRepository(db),
	}
}

// Create stores a new card set owned by callerID.
func (s *Service) Create(ctx context.Context, callerID uuid.UUID, name string, cards []Card) (*CardSet, error) {
	name, err := validate(name, cards)
	if err != nil {
		return nil, err
	}

	ok, err := s.users.Exists(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCreatorMissing
	}

	set, err := s.sets.Insert(ctx, callerID, name, cards)
	if err != nil {
		return nil, err
	}

	logging.GetLoggerFromContext(ctx).Info("card set created", "card_set_id", set.ID, "cards", len(set.Cards))
	return set, nil
}

// Edit replaces name and cards. Only the creator may edit; nothing changes
// otherwise.
func (s *Service) Edit(ctx context.Context, callerID, setID uuid.UUID, name string, cards []Card) error {
	name, err := validate(name, cards)
	if err != nil {
		return err
	}

	matched, err := s.sets.UpdateOwned(ctx, setID, callerID, name, cards)
	if err != nil {
		return err
	}
	if matched {
		return nil
	}

	exists, err := s.sets.Exists(ctx, setID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrNotOwner
}

// Delete removes the set and its likes. Ownership is checked before anything
// is mutated.
func (s *Service) Delete(ctx context.Context, callerID, setID uuid.UUID) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		sets := s.sets.WithTx(tx)

		row, err := sets.GetRow(ctx, setID)
		if err != nil {
			return err
		}
		if row.CreatorID != callerID {
			return ErrNotOwner
		}

		if err := sets.DeleteLikes(ctx, setID); err != nil {
			return err
		}
		if err := sets.Delete(ctx, setID); err != nil {
			return fmt.Errorf("delete card set %s: %w", setID, err)
		}
		return nil
	})
}

// Get returns the full card set including LikedBy.
func (s *Service) Get(ctx context.Context, setID uuid.UUID) (*CardSet, error) {
	return s.sets.Get(ctx, setID)
}

func validate(name string, cards []Card) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	for _, c := range cards {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			return "", ErrInvalidCard
		}
	}
	return name, nil
}
