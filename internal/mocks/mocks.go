// Package mocks holds testify mocks of the service interfaces for handler tests.
package mocks

import "github.com/pageza/foodgram/backend/internal/service"

var (
	_ service.IAuthService         = (*MockAuthService)(nil)
	_ service.IRecipeService       = (*MockRecipeService)(nil)
	_ service.IMembershipService   = (*MockMembershipService)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
	_ service.IFollowService       = (*MockFollowService)(nil)
	_ service.ICatalogService      = (*MockCatalogService)(nil)
)
