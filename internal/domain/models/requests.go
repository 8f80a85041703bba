package models

// Requests for the dashboard HTTP endpoints. Defined in domain for reuse.
// The "period" tag accepts the tokens in Periods; internal/handler/api
// registers it.

type EntitiesRequest struct {
	Entities string `query:"entities" json:"entities" validate:"omitempty,max=256"`
}

type ForexRequest struct {
	Entities string `query:"entities" json:"entities" default:"France,UK,Japan,China,Switzerland" validate:"required,max=256"`
	Period   string `query:"period" json:"period" default:"1y" validate:"period"`
}

type CommoditiesRequest struct {
	Period string `query:"period" json:"period" default:"1y" validate:"period"`
}

type SpreadRequest struct {
	A string `query:"a" json:"a" default:"USA" validate:"required"`
	B string `query:"b" json:"b" default:"Germany" validate:"required,nefield=A"`
}

type CurveRequest struct {
	Entity string `query:"entity" json:"entity" default:"USA" validate:"required"`
}

type QuoteRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,max=32"`
	Period string `query:"period" json:"period" default:"1y" validate:"period"`
}

type CorrelationRequest struct {
	Tickers string `query:"tickers" json:"tickers" validate:"required,max=512"`
	Period  string `query:"period" json:"period" default:"1y" validate:"period"`
}

type StatementRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,max=32"`
	Kind   string `query:"kind" json:"kind" default:"income" validate:"oneof=income balance cashflow"`
}
