//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/PorePranav/CloudCart/internal/product/models"
	"github.com/PorePranav/CloudCart/internal/product/store"
	"github.com/PorePranav/CloudCart/pkg/testutil/containers"
)

type PostgresProductSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *store.PostgresStore
}

func TestPostgresProductSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresProductSuite))
}

func (s *PostgresProductSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.pg.Pool)
}

func (s *PostgresProductSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "products"))
}

func (s *PostgresProductSuite) newProduct(name string, createdAt time.Time) *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     4999,
		Stock:     12,
		Category:  "Electronics",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func (s *PostgresProductSuite) TestCreateAndList() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	older := s.newProduct("Older Product", base.Add(-time.Hour))
	newer := s.newProduct("Newer Product", base)
	s.Require().NoError(s.store.Create(ctx, older))
	s.Require().NoError(s.store.Create(ctx, newer))

	products, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(products, 2)
	s.Equal(newer.ID, products[0].ID, "newest first")
	s.Equal(older.ID, products[1].ID)
}

func (s *PostgresProductSuite) TestUpdate() {
	ctx := context.Background()
	product := s.newProduct("Desk Lamp", time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Create(ctx, product))

	product.Name = "Desk Lamp Pro"
	product.Price = 2999
	product.UpdatedAt = product.UpdatedAt.Add(time.Hour)
	s.Require().NoError(s.store.Update(ctx, product))

	found, err := s.store.FindByID(ctx, product.ID)
	s.Require().NoError(err)
	s.Equal("Desk Lamp Pro", found.Name)
	s.Equal(int64(2999), found.Price)
}

func (s *PostgresProductSuite) TestUpdateMissing() {
	product := s.newProduct("Ghost", time.Now().UTC())
	s.ErrorIs(s.store.Update(context.Background(), product), store.ErrNotFound)
}

func (s *PostgresProductSuite) TestDelete() {
	ctx := context.Background()
	product := s.newProduct("Desk Lamp", time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.Create(ctx, product))

	s.Require().NoError(s.store.Delete(ctx, product.ID))
	s.ErrorIs(s.store.Delete(ctx, product.ID), store.ErrNotFound)

	_, err := s.store.FindByID(ctx, product.ID)
	s.ErrorIs(err, store.ErrNotFound)
}
