/*
Package designation maps OpenStreetMap tags to readable designations and back.

OSM data is tagged with key=value pairs, and the same thing is often tagged
in several ways. A designation (e.g. "Kvinneklær" for clothes=women) has one
or more definitions. A definition is a list of tags that must all be present.
Satisfying any one definition is enough for the designation to apply. The
first definition is the conventional one and is used when designations are
written back as tags.

The Catalog holds all designations, their groups and categories. It is
loaded from a YAML file (see catalog.yml for the default) and validated once.
A Catalog is never modified after loading and is safe for concurrent use.

Read path: DesignationsFromTags, InferCategoryFromOsmTags and
GroupDesignationsByConflict derive what to display for an element.

Write path: OsmTagsFromDesignations and ApplyDesignationChanges convert a
selection of designations into tags. ApplyDesignationChanges only touches the
tags of added and removed designations.
*/
package designation
