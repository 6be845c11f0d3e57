package engine

import "errors"

// ErrCapacityExceeded is returned by World.Create when every slot holds a live entity
var ErrCapacityExceeded = errors.New("entity capacity exceeded")
