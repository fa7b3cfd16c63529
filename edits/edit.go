package edits

import (
	"strings"

	osm "github.com/omniscale/go-osm"
	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap/designation"
	"github.com/fivh-bergen/fivhmap/edits/binary"
	"github.com/fivh-bergen/fivhmap/feature"
)

// Edit is a pending modification of a node. Tags are the complete tags
// after the modification. Version is the node version the edit is based on.
type Edit binary.Record

const CreatedBy = "Gjenbruksportalen"

// ChangesetTags returns the tags for the changeset that uploads e.
func (e *Edit) ChangesetTags() osm.Tags {
	return osm.Tags{
		"created_by": CreatedBy,
		"comment":    e.Comment,
	}
}

var ErrNameRequired = errors.New("name is required")

// Fields are the free text fields of the edit form.
var Fields = []string{
	"description",
	"website",
	"phone",
	"opening_hours",
	"addr:street",
	"addr:housenumber",
	"addr:postcode",
	"addr:city",
}

// Form is a submitted edit form.
type Form struct {
	Name string
	// Values for Fields. Empty values keep the current tag.
	Values map[string]string
	// Selected designations after editing.
	Selected []string
}

// NewEdit applies form to the current tags of a node. Designations are
// added and removed by the difference between the editable designations of
// the node and form.Selected. Other tags are kept.
func NewEdit(c *designation.Catalog, node *osm.Node, form Form) (*Edit, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	current := make(osm.Tags, len(node.Tags))
	for k, v := range node.Tags {
		if strings.HasPrefix(k, feature.PropertyPrefix) {
			continue
		}
		current[k] = v
	}

	// the form only offers editable designations
	var before []string
	for _, n := range c.DesignationsFromTags(current) {
		if ok, _ := c.IsEditable(n); ok {
			before = append(before, n)
		}
	}
	added, removed := designation.Diff(before, form.Selected)
	tags, err := c.ApplyDesignationChanges(current, added, removed)
	if err != nil {
		return nil, err
	}
	tags["name"] = name
	for _, k := range Fields {
		if v := strings.TrimSpace(form.Values[k]); v != "" {
			tags[k] = v
		}
	}

	var version int32
	if node.Metadata != nil {
		version = node.Metadata.Version
	}
	category := c.InferCategoryFromSelectedDesignations(form.Selected)
	return &Edit{
		ID:      node.ID,
		Version: version,
		Tags:    tags,
		Added:   added,
		Removed: removed,
		Comment: "Updated " + category + ": " + name,
	}, nil
}
