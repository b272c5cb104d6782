package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MLowen1/basicwebapp/internal/common"
	"github.com/MLowen1/basicwebapp/internal/logging"
	"github.com/MLowen1/basicwebapp/internal/server/models"
	"github.com/MLowen1/basicwebapp/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// ContactInput is the full set of editable contact fields.
type ContactInput struct {
	FirstName string `json:"firstName" validate:"required,max=80"`
	LastName  string `json:"lastName" validate:"required,max=80"`
	Email     string `json:"email" validate:"required,email,max=120"`
}

// ContactPatch carries the fields present in an update request; nil fields
// keep their stored value.
type ContactPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

var contactFieldLabels = map[string]string{
	"firstName": "First name",
	"lastName":  "Last name",
	"email":     "Email",
}

type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
}

// NewContactService returns a contact service stored through m.
func NewContactService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *ContactService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	return &ContactService{
		db:          db,
		repomanager: m,
		validate:    v,
		logger:      logger.With("module", "contacts"),
	}
}

func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	list, err := s.repomanager.Contacts(s.db).List(ctx)
	if err != nil {
		return nil, s.storageError(ctx, "list", err)
	}
	return list, nil
}

func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	c, err := s.repomanager.Contacts(s.db).Get(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, "get", err)
	}
	return c, nil
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (*models.Contact, error) {
	in = in.trimmed()
	if err := s.check(in); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Contacts(s.db).Create(ctx, &models.Contact{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	})
	if err != nil {
		return nil, s.storageError(ctx, "create", err)
	}
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, id int64, patch ContactPatch) (*models.Contact, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	in := ContactInput{FirstName: current.FirstName, LastName: current.LastName, Email: current.Email}
	if patch.FirstName != nil {
		in.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		in.LastName = *patch.LastName
	}
	if patch.Email != nil {
		in.Email = *patch.Email
	}

	in = in.trimmed()
	if err := s.check(in); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Contacts(s.db).Update(ctx, &models.Contact{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	})
	if err != nil {
		return nil, s.storageError(ctx, "update", err)
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Contacts(s.db).Delete(ctx, id); err != nil {
		return s.storageError(ctx, "delete", err)
	}
	return nil
}

func (in ContactInput) trimmed() ContactInput {
	return ContactInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
	}
}

// check reports the first failing field as a *common.ValidationError.
func (s *ContactService) check(in ContactInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	label := contactFieldLabels[fe.Field()]

	var msg string
	switch fe.Tag() {
	case "required":
		msg = label + " cannot be empty"
	case "email":
		msg = label + " is not a valid email address"
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		msg = label + " is invalid"
	}

	return common.NewValidationError(fe.Field(), msg)
}

func (s *ContactService) storageError(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
		return err
	}
	s.logger.Error(ctx, "contact storage failed", "op", op, "err", err)
	return common.ErrorInternal
}
