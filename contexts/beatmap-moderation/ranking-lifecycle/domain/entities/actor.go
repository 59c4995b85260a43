package entities

// Authority is a bit set of lifecycle actions a caller may perform. It is
// resolved by the authorization collaborator and trusted at face value.
type Authority uint32

const (
	AuthorityNominate Authority = 1 << iota
	AuthorityLove
	AuthorityRank
	AuthorityCancel
)

// Actor identifies the caller of a lifecycle action.
type Actor struct {
	UserID      int64
	Name        string
	Authorities Authority
}

func (a Actor) Can(authority Authority) bool {
	return a.Authorities&authority != 0
}

// SchedulerActor is the synthetic actor the promotion sweeper acts as.
func SchedulerActor() Actor {
	return Actor{UserID: 0, Name: "promotion scheduler"}
}
