// Package feature converts between OSM elements, GeoJSON features and
// classified venues.
package feature

import (
	"io"
	"io/ioutil"
	"strings"

	osm "github.com/omniscale/go-osm"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap/designation"
)

// Properties added to classified features. Properties with PropertyPrefix
// are ignored when features are classified.
const (
	PropertyPrefix       = "fivh:"
	DesignationsProperty = "fivh:designations"
	CategoryProperty     = "fivh:category"
	VersionProperty      = "fivh:version"
)

// Venue is a classified OSM node.
type Venue struct {
	ID           int64
	Version      int32
	Long         float64
	Lat          float64
	Tags         osm.Tags
	Designations []string
	Category     string
}

// NewVenue classifies a node. Returns false if the node has no designation.
func NewVenue(c *designation.Catalog, node *osm.Node) (Venue, bool) {
	names := c.DesignationsFromTags(node.Tags)
	if len(names) == 0 {
		return Venue{}, false
	}
	var version int32
	if node.Metadata != nil {
		version = node.Metadata.Version
	}
	return Venue{
		ID:           node.ID,
		Version:      version,
		Long:         node.Long,
		Lat:          node.Lat,
		Tags:         node.Tags,
		Designations: names,
		Category:     c.InferCategoryFromOsmTags(node.Tags),
	}, true
}

// TagsFromProperties returns all string properties as tags. Other values
// and properties with PropertyPrefix are skipped.
func TagsFromProperties(props geojson.Properties) osm.Tags {
	tags := make(osm.Tags, len(props))
	for k, v := range props {
		if strings.HasPrefix(k, PropertyPrefix) {
			continue
		}
		if s, ok := v.(string); ok {
			tags[k] = s
		}
	}
	return tags
}

func ReadCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading geojson")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing geojson")
	}
	return fc, nil
}

func WriteCollection(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding geojson")
	}
	_, err = w.Write(data)
	return err
}

// Classify returns a new collection with the designations and the category
// of each feature set as properties. Features without designations are
// dropped, unless keepUnclassified is set.
func Classify(c *designation.Catalog, fc *geojson.FeatureCollection, keepUnclassified bool) *geojson.FeatureCollection {
	result := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		tags := TagsFromProperties(f.Properties)
		names := c.DesignationsFromTags(tags)
		if len(names) == 0 && !keepUnclassified {
			continue
		}

		props := f.Properties.Clone()
		if props == nil {
			props = geojson.Properties{}
		}
		props[DesignationsProperty] = designation.JoinTagValues(names)
		props[CategoryProperty] = c.InferCategoryFromOsmTags(tags)

		nf := geojson.NewFeature(f.Geometry)
		nf.ID = f.ID
		nf.BBox = f.BBox
		nf.Properties = props
		result.Append(nf)
	}
	return result
}

// FromVenue returns a point feature with all tags and the classification
// as properties.
func FromVenue(v Venue) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{v.Long, v.Lat})
	f.ID = FormatNodeID(v.ID)
	for k, val := range v.Tags {
		f.Properties[k] = val
	}
	f.Properties[DesignationsProperty] = designation.JoinTagValues(v.Designations)
	f.Properties[CategoryProperty] = v.Category
	if v.Version > 0 {
		f.Properties[VersionProperty] = float64(v.Version)
	}
	return f
}

// VersionFromProperties returns the node version of a feature written by
// FromVenue, or 0.
func VersionFromProperties(props geojson.Properties) int32 {
	return int32(props.MustFloat64(VersionProperty, 0))
}

// FindFeature returns the feature of node id.
func FindFeature(fc *geojson.FeatureCollection, id int64) (*geojson.Feature, bool) {
	for _, f := range fc.Features {
		if fid, err := featureID(f); err == nil && fid == id {
			return f, true
		}
	}
	return nil, false
}

// NodeFromFeature returns the node of a point feature with its tags and
// version.
func NodeFromFeature(f *geojson.Feature) (*osm.Node, error) {
	id, err := featureID(f)
	if err != nil {
		return nil, err
	}
	p, ok := f.Geometry.(orb.Point)
	if !ok {
		return nil, errors.Errorf("feature %s is not a point", FormatNodeID(id))
	}
	node := &osm.Node{
		Element: osm.Element{ID: id, Tags: TagsFromProperties(f.Properties)},
		Long:    p.Lon(),
		Lat:     p.Lat(),
	}
	if v := VersionFromProperties(f.Properties); v > 0 {
		node.Metadata = &osm.Metadata{Version: v}
	}
	return node, nil
}

// DesignationsFromProperties returns the designations of a classified
// feature.
func DesignationsFromProperties(props geojson.Properties) []string {
	return designation.SplitTagValues(props.MustString(DesignationsProperty, ""))
}

// featureID accepts node/123 and numeric ids.
func featureID(f *geojson.Feature) (int64, error) {
	switch id := f.ID.(type) {
	case string:
		return ParseNodeID(id)
	case float64:
		if id > 0 && id == float64(int64(id)) {
			return int64(id), nil
		}
	}
	return 0, errors.Errorf("invalid feature id %v", f.ID)
}
