package store

import (
	"pinecrest.club/gazette/core/db"
)

// Stores hands out typed store accessors over a shared Querier.
type Stores struct {
	q db.Querier
}

func NewStores(q db.Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Issues() IssueStore {
	return &issueStore{q: s.q}
}

func (s *Stores) Sections() SectionStore {
	return &sectionStore{q: s.q}
}

func (s *Stores) Members() MemberStore {
	return &memberStore{q: s.q}
}

func (s *Stores) Events() EventStore {
	return &eventStore{q: s.q}
}

func (s *Stores) Hosts() HostStore {
	return &hostStore{q: s.q}
}

func (s *Stores) Rotations() RotationStore {
	return &rotationStore{q: s.q}
}

func (s *Stores) Highlights() HighlightStore {
	return &highlightStore{q: s.q}
}

func (s *Stores) QOTM() QOTMStore {
	return &qotmStore{q: s.q}
}

func (s *Stores) Photos() PhotoStore {
	return &photoStore{q: s.q}
}
