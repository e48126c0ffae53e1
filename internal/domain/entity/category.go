package entity

// TaxonomyAxis is a classification dimension resolved to canonical categories.
type TaxonomyAxis string

const (
	AxisStatus       TaxonomyAxis = "status"
	AxisResearchLine TaxonomyAxis = "research-line"
	AxisNewsletter   TaxonomyAxis = "newsletter"
)

// Category is a canonical classification term within one axis.
// Newsletter categories are children of a fixed parent and carry the
// batch number in Sequence.
type Category struct {
	ID       int64
	Axis     TaxonomyAxis
	Name     string
	ParentID *int64
	Sequence *int
}
