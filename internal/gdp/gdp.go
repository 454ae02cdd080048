package gdp

import "fmt"

type Unit int

const (
	Millions Unit = iota
	Billions
)

func (u Unit) String() string {
	switch u {
	case Millions:
		return "USD million"
	case Billions:
		return "USD billion"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Record is a single country row of the GDP table.
type Record struct {
	Country string
	Value   float64
}

// Dataset is the ordered set of records parsed from the table, the order
// matches the source table. Country names are not deduplicated.
type Dataset struct {
	Unit    Unit
	Records []Record
}

func (d Dataset) Len() int {
	return len(d.Records)
}
