package models

// Cart maps game IDs to quantities for the duration of a session. It is
// never persisted; quantities are always 1 in the current design, the map
// shape just leaves room for multiples.
type Cart map[uint]int

// Add puts a game in the cart. Adding a game already present has no effect.
func (c Cart) Add(gameID uint) {
	c[gameID] = 1
}

// Remove takes a game out of the cart and reports whether it was present.
func (c Cart) Remove(gameID uint) bool {
	if _, ok := c[gameID]; !ok {
		return false
	}
	delete(c, gameID)
	return true
}

// GameIDs returns the IDs currently in the cart.
func (c Cart) GameIDs() []uint {
	ids := make([]uint, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}
