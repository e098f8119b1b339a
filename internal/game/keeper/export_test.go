package keeper

// LockCount reports how many per-creature locks the keeper is holding on to.
func (k *Keeper) LockCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
