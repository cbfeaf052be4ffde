package route

import "errors"

var (
	ErrRouteNotFound     = errors.New("route not found")
	ErrRouteNumberExists = errors.New("route number already exists")
)
