package pcluster

import (
	"context"
	"pcluster/pcui/util"
	"pcluster/pcui/wizard"
	"strings"
)

type UserRepository interface {
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, username string) error
}

type UserService struct {
	UserRepository
	epub EventPublisher
}

func NewUserService(repo UserRepository, epub EventPublisher) *UserService {
	return &UserService{UserRepository: repo, epub: epub}
}

func (service *UserService) Create(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if ok, kind := wizard.ValidateUserEmail(email); !ok {
		return nil, ValidationError{Field: "email", Kind: kind}
	}
	user, err := service.UserRepository.Create(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := service.epub.Publish(NewEventUserCreated(user)); err != nil {
		return nil, util.NewError(err, "cannot publish event user created")
	}
	return user, nil
}

func (service *UserService) Delete(ctx context.Context, username string) error {
	if err := service.UserRepository.Delete(ctx, username); err != nil {
		return err
	}
	if err := service.epub.Publish(NewEventUserDeleted(username)); err != nil {
		return util.NewError(err, "cannot publish event user deleted")
	}
	return nil
}
