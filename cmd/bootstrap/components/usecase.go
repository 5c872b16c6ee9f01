package components

import (
	"go.uber.org/fx"

	"quotedesk/internal/pkg/clock"
	"quotedesk/internal/usecase/commands"
	"quotedesk/internal/usecase/queries"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
	),
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewQuotationCommands,
		commands.NewResponseCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewQuotationQueries,
	),
)
