package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/dairy_shop/internal/models"
	"github.com/Skotchmaster/dairy_shop/internal/repo"
	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

type CustomerService struct {
	Repo *repo.GormRepo
}

func (s *CustomerService) List(ctx context.Context, userID uint) ([]models.Customer, error) {
	items, err := s.Repo.ListCustomers(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func (s *CustomerService) Create(ctx context.Context, userID uint, req transport.CustomerRequest) (*models.Customer, error) {
	if blank(req.Name, req.Locality, req.City, req.Mobile, req.Zipcode, req.State) {
		return nil, fmt.Errorf("%w: all customer details are required", ErrValidation)
	}
	c := &models.Customer{
		UserID:   userID,
		Name:     req.Name,
		Locality: req.Locality,
		City:     req.City,
		Mobile:   req.Mobile,
		Zipcode:  req.Zipcode,
		State:    req.State,
	}
	if err := s.Repo.CreateCustomer(ctx, c); err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, userID, id uint) (*models.Customer, error) {
	c, err := s.Repo.CustomerForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}
	return c, nil
}

func (s *CustomerService) Patch(ctx context.Context, userID, id uint, req transport.PatchCustomerRequest) (*models.Customer, error) {
	c, err := s.Repo.CustomerForUser(ctx, userID, id)
	if err != nil {
		return nil, classify(err)
	}

	fields := []struct {
		src *string
		dst *string
	}{
		{req.Name, &c.Name},
		{req.Locality, &c.Locality},
		{req.City, &c.City},
		{req.Mobile, &c.Mobile},
		{req.Zipcode, &c.Zipcode},
		{req.State, &c.State},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if blank(*f.src) {
			return nil, fmt.Errorf("%w: customer fields must not be empty", ErrValidation)
		}
		*f.dst = *f.src
	}

	if err := s.Repo.SaveCustomer(ctx, c); err != nil {
		return nil, classify(err)
	}
	return c, nil
}

// Delete refuses customers that orders still point at.
func (s *CustomerService) Delete(ctx context.Context, userID, id uint) error {
	err := s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.CustomerForUser(ctx, userID, id); err != nil {
			return err
		}
		used, err := tx.CustomerHasOrders(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: customer %d has orders", ErrConflict, id)
		}
		return tx.DeleteCustomer(ctx, userID, id)
	})
	return classify(err)
}
