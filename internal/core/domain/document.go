package domain

import "maps"

// Document is one record returned by a collection query.
type Document struct {
	ID         string         `json:"id" yaml:"id"`
	Collection string         `json:"collection" yaml:"collection"`
	Fields     map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// DedupeDocuments keeps one document per ID. When an ID occurs more than once
// the last occurrence wins, but the position of the first occurrence is kept.
func DedupeDocuments(docs []Document) []Document {
	index := make(map[string]int, len(docs))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if i, ok := index[d.ID]; ok {
			out[i] = d
			continue
		}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	return out
}

// CloneDocuments copies docs and the Fields map of each document. Field values
// themselves are not copied.
func CloneDocuments(docs []Document) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	for i, d := range docs {
		d.Fields = maps.Clone(d.Fields)
		out[i] = d
	}
	return out
}
