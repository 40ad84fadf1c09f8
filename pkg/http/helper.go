package http

import (
	"strconv"

	apperrors "labslot/pkg/errors"

	"github.com/julienschmidt/httprouter"
)

// PathID extracts a positive integer id from a route parameter.
func PathID(ps httprouter.Params, name string) (int64, error) {
	raw := ps.ByName(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("Invalid " + name + " in path")
	}
	return id, nil
}
