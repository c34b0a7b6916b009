package aggregates

import "slices"

// Contract declares which write operations an aggregate owns and which tables those writes touch.
// Writes run through the aggregate's own transaction; reads outside a write stay on table repos.
type Contract struct {
	Name   string
	Writes []string
	Tables []string
	Notes  string
}

// Aggregate is implemented by every transactional write owner.
type Aggregate interface {
	Contract() Contract
}

// Owns reports whether op is one of the contract's declared writes.
func (c Contract) Owns(op string) bool {
	return slices.Contains(c.Writes, op)
}

// Touches reports whether the aggregate writes to table.
func (c Contract) Touches(table string) bool {
	return slices.Contains(c.Tables, table)
}
