package components

import (
	"go.uber.org/fx"

	"quotedesk/internal/handler"
	"quotedesk/internal/handler/api"
	"quotedesk/internal/handler/middleware"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewQuotationHandler,
		api.NewPublicHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
