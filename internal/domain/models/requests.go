package models

// OpponentRequest fetches one opponent model.
type OpponentRequest struct {
	Addr string `param:"addr" validate:"required"`
}

// WagerRequest asks for a recommended wager against one opponent.
type WagerRequest struct {
	Addr       string `param:"addr" validate:"required"`
	BalanceWei uint64 `query:"balance_wei" validate:"required,gt=0"`
	MinWei     uint64 `query:"min_wei" validate:"required,gt=0"`
	MaxWei     uint64 `query:"max_wei" validate:"required,gtefield=MinWei"`
}

// TargetsRequest limits the weak-target ranking.
type TargetsRequest struct {
	Limit int `query:"limit" default:"20" validate:"gte=1,lte=100"`
}
