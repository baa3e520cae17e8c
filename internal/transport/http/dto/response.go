package dto

import servicedto "github.com/fleshka4/swap-pool/internal/service/dto"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PoolsResponse is the body of GET /pools.
type PoolsResponse struct {
	Pools []servicedto.PoolState `json:"pools"`
}
