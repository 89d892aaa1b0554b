package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/models"
	"storefront/store"
)

func seedUser(t *testing.T, st *store.Memory, email string, role models.Role, isAdmin bool) *models.Session {
	t.Helper()
	now := time.Now()
	user := &models.User{
		Email:       email,
		DisplayName: email,
		Role:        role,
		IsAdmin:     isAdmin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return &models.Session{User: user}
}

func seedProduct(t *testing.T, st *store.Memory, name string, price float64, stock int) *models.Product {
	t.Helper()
	now := time.Now()
	product := &models.Product{
		Name:          name,
		Description:   name + " description",
		Price:         price,
		StockQuantity: stock,
		Category:      "test",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, st.CreateProduct(context.Background(), product))
	return product
}
