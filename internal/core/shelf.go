package core

// ShelfID is a unique shelf identifier.
type ShelfID int

// NoAgent marks an unclaimed shelf.
const NoAgent AgentID = -1

// Shelf is a movable storage unit. It sits at Cell when stored and follows its
// carrier when picked up; Home is where the return leg puts it back.
type Shelf struct {
	ID     ShelfID
	Home   Cell
	Cell   Cell
	Weight float64

	CarriedBy AgentID
	Delivered bool // completed at least one delivery
}

// NewShelf creates a stored shelf at its home cell.
func NewShelf(id ShelfID, home Cell, weight float64) *Shelf {
	return &Shelf{
		ID:        id,
		Home:      home,
		Cell:      home,
		Weight:    weight,
		CarriedBy: NoAgent,
	}
}

// IsCarried reports whether any agent holds the shelf.
func (s *Shelf) IsCarried() bool { return s.CarriedBy != NoAgent }
