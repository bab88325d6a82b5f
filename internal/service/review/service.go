package review

import (
	"context"
	"errors"
	"strings"

	"serviceease/internal/auth"
	"serviceease/internal/domain"
	"serviceease/internal/logger"
	catrepo "serviceease/internal/repository/catalog"
	reviewrepo "serviceease/internal/repository/review"
)

// Service manages service reviews. Reads are public; each user may review
// a service once.
type Service struct {
	reviews  reviewrepo.Repository
	services catrepo.Repository
	guard    *auth.Guard
	log      *logger.Logger
}

func New(reviews reviewrepo.Repository, services catrepo.Repository, guard *auth.Guard, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{reviews: reviews, services: services, guard: guard, log: log}
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.ListAll(ctx)
}

func (s *Service) ListByService(ctx context.Context, serviceID string) ([]domain.Review, error) {
	if _, err := s.services.GetService(ctx, serviceID); err != nil {
		return nil, err
	}
	return s.reviews.ListByService(ctx, serviceID)
}

// ListByUser returns the reviews a user has written. Callers may list
// their own reviews; admins may list anyone's.
func (s *Service) ListByUser(ctx context.Context, p auth.Principal, userID string) ([]domain.Review, error) {
	if err := s.requireAccess(ctx, p, auth.ReviewResource{AuthorID: userID}); err != nil {
		return nil, err
	}
	return s.reviews.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

type CreateInput struct {
	Service string `json:"service"`
	Rating  int    `json:"rating"`
	Text    string `json:"text"`
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.NewValidationError("rating", "rating must be between 1 and 5")
	}
	if _, err := s.services.GetService(ctx, in.Service); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("service", "service does not exist")
		}
		return nil, err
	}
	rev, err := s.reviews.Create(ctx, reviewrepo.CreateReviewInput{
		ServiceID: in.Service,
		UserID:    p.ID,
		Rating:    in.Rating,
		Text:      strings.TrimSpace(in.Text),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.NewValidationError("service", "you have already reviewed this service")
		}
		return nil, err
	}
	s.log.Debug("review created", "review_id", rev.ID, "service_id", in.Service)
	return rev, nil
}

type UpdateInput struct {
	Rating *int    `json:"rating"`
	Text   *string `json:"text"`
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in UpdateInput) (*domain.Review, error) {
	rev, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireAccess(ctx, p, auth.ReviewResource{AuthorID: rev.UserID}); err != nil {
		return nil, err
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, domain.NewValidationError("rating", "rating must be between 1 and 5")
	}
	return s.reviews.Update(ctx, id, reviewrepo.UpdateReviewInput{Rating: in.Rating, Text: in.Text})
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	rev, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireAccess(ctx, p, auth.ReviewResource{AuthorID: rev.UserID}); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, id)
}

func (s *Service) requireAccess(ctx context.Context, p auth.Principal, res auth.Resource) error {
	ok, err := s.guard.CanAccess(ctx, p, res)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}
