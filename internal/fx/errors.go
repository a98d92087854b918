package fx

import "errors"

// ErrNonFinite indicates an entity whose state contains NaN or Inf.
var ErrNonFinite = errors.New("fx: non-finite entity state")
