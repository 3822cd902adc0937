package user

// Principal is the authenticated club representative resolved from a
// bearer token. ClubIDs lists every club the representative acts for.
type Principal struct {
	UserID  string
	Email   string
	ClubIDs []string
}

func (p Principal) HasClub() bool {
	return len(p.ClubIDs) > 0
}
