package model

import "encoding/json"

// MarshalJSON adds the derived entity_type tag alongside the record so
// consumers of exported JSON can dispatch without knowing Go types.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	type alias SearchResult
	return json.Marshal(struct {
		EntityType EntityType `json:"entity_type"`
		alias
	}{EntityType: r.Type(), alias: alias(r)})
}
