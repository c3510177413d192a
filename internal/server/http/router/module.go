package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/app"
	"github.com/polkiloo/marketplace/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	func(f *app.MarketplaceFacade) handlers.MarketplaceFacade { return f },
	Setup,
)
