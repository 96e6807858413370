package types

// RequireUnlocked fails when the pair is in the middle of an operation. Every
// pair-mutating entry point checks it first, so a callback from a maker
// cannot re-enter and mutate the book mid-traversal.
func RequireUnlocked(local LocalPacked) error {
	if local.Lock() {
		return ErrReentrancyLocked
	}
	return nil
}

// RequireLive fails once the exchange has been killed.
func RequireLive(global GlobalPacked) error {
	if global.Dead() {
		return ErrExchangeDead
	}
	return nil
}

// RequireActive fails when the exchange is dead or the pair is inactive.
func RequireActive(global GlobalPacked, local LocalPacked) error {
	if err := RequireLive(global); err != nil {
		return err
	}
	if !local.Active() {
		return ErrPairInactive
	}
	return nil
}
