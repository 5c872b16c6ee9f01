package response

import "quotedesk/internal/usecase/queries"

// The query layer's read models already carry wire-ready shapes; the
// response package re-exports them so handlers never import queries for
// serialization alone.

type QuotationResponse = queries.QuotationView

type QuotationListResponse = queries.QuotationPage

type PublicQuotationResponse = queries.PublicQuotationView

type DashboardStatsResponse = queries.DashboardStats
