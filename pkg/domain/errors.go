package domain

import "errors"

// ErrNodeNotFound is returned when an operation targets a node id that is
// not part of the committed graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrControlsNotFound is returned by controls stores when no cached
// controls exist for a node.
var ErrControlsNotFound = errors.New("controls not found")
